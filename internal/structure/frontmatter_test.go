package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
code-path: a.rs
code-line: 5
author: someone
---

The proof sketch lives here.
`

func TestParseFrontmatter(t *testing.T) {
	fm, err := ParseFrontmatter([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "a.rs", fm.Fields["code-path"])
	assert.Equal(t, 5, asInt(fm.Fields["code-line"]))
	assert.Equal(t, "someone", fm.Fields["author"])
	assert.Equal(t, "\nThe proof sketch lives here.\n", fm.Body)
}

func TestParseFrontmatterErrors(t *testing.T) {
	_, err := ParseFrontmatter([]byte("no header here\n"))
	assert.Error(t, err)

	_, err = ParseFrontmatter([]byte("---\ncode-path: a.rs\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestRenderPreservesBodyAndForeignKeys(t *testing.T) {
	fm, err := ParseFrontmatter([]byte(sampleDoc))
	require.NoError(t, err)

	stub := StubFromFields(fm.Fields)
	stub.CodeName = "f1"
	stub.CodeLines = &LineRange{Start: 5, End: 9}
	stub.ApplyTo(fm.Fields)

	data, err := fm.Render()
	require.NoError(t, err)

	reparsed, err := ParseFrontmatter(data)
	require.NoError(t, err)
	assert.Equal(t, fm.Body, reparsed.Body)
	assert.Equal(t, "f1", reparsed.Fields["code-name"])
	assert.Equal(t, "someone", reparsed.Fields["author"], "foreign keys survive the rewrite")
}

func TestRenderIsDeterministic(t *testing.T) {
	fm := &Frontmatter{Fields: map[string]any{
		"zeta":      "z",
		"code-path": "a.rs",
		"alpha":     "a",
		"code-name": "f",
	}}

	first, err := fm.Render()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := fm.Render()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
	// Canonical keys lead, foreign keys trail sorted.
	assert.Regexp(t, `(?s)code-name:.*code-path:.*alpha:.*zeta:`, string(first))
}

func TestStubFromFieldsCoercesJSONNumbers(t *testing.T) {
	stub := StubFromFields(map[string]any{
		"code-line":  float64(12),
		"code-lines": map[string]any{"start": float64(12), "end": float64(20)},
		"dependencies": []any{"a", "b"},
	})
	assert.Equal(t, 12, stub.CodeLine)
	assert.Equal(t, &LineRange{Start: 12, End: 20}, stub.CodeLines)
	assert.Equal(t, []string{"a", "b"}, stub.Dependencies)
}
