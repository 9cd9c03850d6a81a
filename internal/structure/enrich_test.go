package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/lineindex"
	"github.com/verilib-dev/structure/internal/resolver"
)

func TestEnrichedMergesAtomFields(t *testing.T) {
	prior := Stub{
		CodePath:  "old.rs",
		CodeLine:  3,
		Verified:  true,
		Specified: true,
		SpecText:  "requires x > 0",
	}
	atom := atoms.Atom{
		Name:         "f1",
		CodePath:     "a.rs",
		LineStart:    5,
		LineEnd:      9,
		Module:       "core",
		Dependencies: []string{"f2"},
		DisplayName:  "f1",
	}

	enriched := Enriched(prior, atom)

	assert.Equal(t, "f1", enriched.CodeName)
	assert.Equal(t, "a.rs", enriched.CodePath)
	assert.Equal(t, 5, enriched.CodeLine)
	assert.Equal(t, &LineRange{Start: 5, End: 9}, enriched.CodeLines)
	assert.Equal(t, "core", enriched.CodeModule)
	assert.Equal(t, []string{"f2"}, enriched.Dependencies)

	// Tracking fields enrichment does not own survive.
	assert.True(t, enriched.Verified)
	assert.True(t, enriched.Specified)
	assert.Equal(t, "requires x > 0", enriched.SpecText)

	// The prior record itself is untouched.
	assert.Equal(t, "old.rs", prior.CodePath)
}

func TestEnrichedDoesNotAliasAtomDependencies(t *testing.T) {
	atom := atoms.Atom{Name: "f", CodePath: "a.rs", LineStart: 1, LineEnd: 2, Dependencies: []string{"d"}}
	enriched := Enriched(Stub{}, atom)
	enriched.Dependencies[0] = "mutated"
	assert.Equal(t, []string{"d"}, atom.Dependencies)
}

func TestPositionLookupEndToEnd(t *testing.T) {
	store, err := atoms.Parse([]byte(`{
		"f1": {"code-path": "a.rs", "code-text": {"lines-start": 5, "lines-end": 9}}
	}`))
	require.NoError(t, err)

	set := Set{"doc/f1.md": {CodePath: "a.rs", CodeLine: 5}}
	r := resolver.New(store, lineindex.Build(store))
	resolutions, stats := r.Resolve(set.Entries())
	require.Equal(t, 1, stats.Resolved)

	enriched := set.ApplyResolutions(resolutions)
	assert.True(t, enriched["doc/f1.md"])

	stub := set["doc/f1.md"]
	assert.Equal(t, "f1", stub.CodeName)
	assert.Equal(t, &LineRange{Start: 5, End: 9}, stub.CodeLines)
}

func TestFailedResolutionLeavesPriorRecord(t *testing.T) {
	store, err := atoms.Parse([]byte(`{}`))
	require.NoError(t, err)

	prior := Stub{CodeName: "gone", CodeModule: "kept", Verified: true}
	set := Set{"doc/gone.md": prior}

	r := resolver.New(store, lineindex.Build(store))
	resolutions, stats := r.Resolve(set.Entries())
	assert.Equal(t, 1, stats.MissingInfo)

	enriched := set.ApplyResolutions(resolutions)
	assert.Empty(t, enriched)
	assert.Equal(t, prior, set["doc/gone.md"])
}
