package structure

import (
	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/resolver"
)

// Enriched merges an atom into the prior stub, producing the canonical
// record. Pure and total over well-formed atoms: optional atom fields land
// as empty values, and tracking fields enrichment does not own (verified,
// specified, spec-text) carry over untouched.
func Enriched(prior Stub, atom atoms.Atom) Stub {
	deps := make([]string, len(atom.Dependencies))
	copy(deps, atom.Dependencies)

	next := prior
	next.CodeName = atom.Name
	next.CodePath = atom.CodePath
	next.CodeLine = atom.LineStart
	next.CodeLines = &LineRange{Start: atom.LineStart, End: atom.LineEnd}
	next.CodeModule = atom.Module
	next.Dependencies = deps
	next.DisplayName = atom.DisplayName
	return next
}

// ApplyResolutions folds batch resolution results into the set. Resolved
// entries are enriched in place; failed entries keep their prior record
// untouched, so enrichment stays monotonically additive across runs.
// Returns the keys that were enriched.
func (s Set) ApplyResolutions(resolutions []resolver.Resolution) map[string]bool {
	enriched := make(map[string]bool)
	for _, res := range resolutions {
		if res.Outcome != resolver.Resolved {
			continue
		}
		key := res.Entry.Key
		prior, ok := s[key]
		if !ok {
			continue
		}
		s[key] = Enriched(prior, res.Atom)
		enriched[key] = true
	}
	return enriched
}
