// Package lineindex maps (file, line) positions to analyzed symbols.
//
// Intervals are kept per source file, sorted by start line with a running
// max-end so that overlap queries stay logarithmic plus output size.
package lineindex

import (
	"sort"

	"github.com/verilib-dev/structure/internal/atoms"
)

// Match is one interval overlapping a queried line.
type Match struct {
	Symbol string
	Start  int
	End    int
}

// Result of a point lookup. Covered distinguishes "file unknown to the
// index" from "file known but no interval at this line".
type Result struct {
	Covered bool
	Matches []Match
}

type fileIndex struct {
	intervals []Match
	maxEnd    []int
}

type Index struct {
	files map[string]*fileIndex
}

// Build groups the store's atoms by code path and prepares each group for
// point queries.
func Build(store *atoms.Store) *Index {
	idx := &Index{files: make(map[string]*fileIndex)}
	for _, atom := range store.All() {
		fi := idx.files[atom.CodePath]
		if fi == nil {
			fi = &fileIndex{}
			idx.files[atom.CodePath] = fi
		}
		fi.intervals = append(fi.intervals, Match{
			Symbol: atom.Name,
			Start:  atom.LineStart,
			End:    atom.LineEnd,
		})
	}

	for _, fi := range idx.files {
		sort.Slice(fi.intervals, func(i, j int) bool {
			a, b := fi.intervals[i], fi.intervals[j]
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return a.Symbol < b.Symbol
		})
		fi.maxEnd = make([]int, len(fi.intervals))
		for i, interval := range fi.intervals {
			fi.maxEnd[i] = interval.End
			if i > 0 && fi.maxEnd[i-1] > interval.End {
				fi.maxEnd[i] = fi.maxEnd[i-1]
			}
		}
	}
	return idx
}

func (ix *Index) Files() int {
	return len(ix.files)
}

// Lookup returns every interval in path that overlaps line, ordered by
// start line then symbol id.
func (ix *Index) Lookup(path string, line int) Result {
	fi, ok := ix.files[path]
	if !ok {
		return Result{}
	}
	result := Result{Covered: true}

	// First interval starting past the queried line; everything at or
	// before it may overlap.
	hi := sort.Search(len(fi.intervals), func(i int) bool {
		return fi.intervals[i].Start > line
	})
	for i := hi - 1; i >= 0; i-- {
		if fi.maxEnd[i] < line {
			break
		}
		if fi.intervals[i].End >= line {
			result.Matches = append(result.Matches, fi.intervals[i])
		}
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Symbol < b.Symbol
	})
	return result
}

// Preferred applies the exact-start rule to a lookup result: an interval
// starting exactly at line beats any other overlap. With several exact
// starts the ascending-symbol-id first is returned and ambiguous is set;
// the pick is deterministic but callers must surface the condition.
func (r Result) Preferred(line int) (match Match, ambiguous bool, ok bool) {
	exact := make([]Match, 0, 1)
	for _, m := range r.Matches {
		if m.Start == line {
			exact = append(exact, m)
		}
	}
	if len(exact) > 0 {
		return exact[0], len(exact) > 1, true
	}
	if len(r.Matches) > 0 {
		return r.Matches[0], false, true
	}
	return Match{}, false, false
}
