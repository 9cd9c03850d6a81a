package lineindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verilib-dev/structure/internal/atoms"
)

func buildIndex(t *testing.T, entries ...string) *Index {
	t.Helper()
	doc := "{"
	for i, entry := range entries {
		if i > 0 {
			doc += ","
		}
		doc += entry
	}
	doc += "}"
	store, err := atoms.Parse([]byte(doc))
	require.NoError(t, err)
	return Build(store)
}

func atomJSON(name, path string, start, end int) string {
	return fmt.Sprintf(
		`%q: {"code-path": %q, "code-text": {"lines-start": %d, "lines-end": %d}}`,
		name, path, start, end,
	)
}

func TestLookupDistinguishesNoCoverageFromNoMatch(t *testing.T) {
	idx := buildIndex(t, atomJSON("A", "a.rs", 10, 20))

	unknown := idx.Lookup("b.rs", 10)
	assert.False(t, unknown.Covered)
	assert.Empty(t, unknown.Matches)

	known := idx.Lookup("a.rs", 50)
	assert.True(t, known.Covered)
	assert.Empty(t, known.Matches)
}

func TestLookupOverlaps(t *testing.T) {
	idx := buildIndex(t,
		atomJSON("A", "a.rs", 10, 20),
		atomJSON("B", "a.rs", 15, 30),
		atomJSON("C", "a.rs", 40, 45),
	)

	result := idx.Lookup("a.rs", 18)
	require.True(t, result.Covered)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "A", result.Matches[0].Symbol)
	assert.Equal(t, "B", result.Matches[1].Symbol)

	// Inclusive on both ends.
	assert.Len(t, idx.Lookup("a.rs", 20).Matches, 2)
	assert.Len(t, idx.Lookup("a.rs", 30).Matches, 1)
	assert.Len(t, idx.Lookup("a.rs", 40).Matches, 1)
}

func TestPreferredExactStartBeatsOverlap(t *testing.T) {
	idx := buildIndex(t,
		atomJSON("outer", "a.rs", 5, 50),
		atomJSON("inner", "a.rs", 12, 20),
	)

	match, ambiguous, ok := idx.Lookup("a.rs", 12).Preferred(12)
	require.True(t, ok)
	assert.False(t, ambiguous)
	assert.Equal(t, "inner", match.Symbol)

	match, ambiguous, ok = idx.Lookup("a.rs", 13).Preferred(13)
	require.True(t, ok)
	assert.False(t, ambiguous)
	assert.Equal(t, "inner", match.Symbol, "smallest start among plain overlaps")
}

func TestPreferredTieBreakIsDeterministicAndFlagged(t *testing.T) {
	idx := buildIndex(t,
		atomJSON("B", "a.rs", 10, 15),
		atomJSON("A", "a.rs", 10, 20),
	)

	for i := 0; i < 10; i++ {
		match, ambiguous, ok := idx.Lookup("a.rs", 10).Preferred(10)
		require.True(t, ok)
		assert.True(t, ambiguous)
		assert.Equal(t, "A", match.Symbol, "ascending symbol id wins the tie")
	}
}

func TestPreferredNoMatch(t *testing.T) {
	idx := buildIndex(t, atomJSON("A", "a.rs", 10, 20))
	_, _, ok := idx.Lookup("a.rs", 9).Preferred(9)
	assert.False(t, ok)
}
