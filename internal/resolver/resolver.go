// Package resolver maps tracked structure entries to canonical atoms.
package resolver

import (
	"fmt"

	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/lineindex"
)

// Entry is the resolvable part of one tracked record. Key identifies the
// entry in warnings and reports; the remaining fields may be empty.
type Entry struct {
	Key      string
	Symbol   string
	CodePath string
	CodeLine int
}

type Outcome int

const (
	// Resolved entries carry a symbol id and its atom.
	Resolved Outcome = iota
	// MissingInfo entries have neither a usable symbol id nor a complete
	// (path, line) position.
	MissingInfo
	// NoMatch entries have a position the line index cannot account for.
	NoMatch
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case MissingInfo:
		return "missing-info"
	case NoMatch:
		return "no-match"
	default:
		return "unknown"
	}
}

// Resolution is the per-entry result. Reason is set on failure; Warnings
// collect non-fatal conditions (position drift, ambiguous matches, stale
// symbol ids).
type Resolution struct {
	Entry     Entry
	Outcome   Outcome
	Symbol    string
	Atom      atoms.Atom
	Ambiguous bool
	Reason    string
	Warnings  []string
}

// Stats are the batch counters surfaced in run summaries.
type Stats struct {
	Resolved    int
	MissingInfo int
	NoMatch     int
	Ambiguous   int
	Warnings    int
}

type Resolver struct {
	store *atoms.Store
	index *lineindex.Index
}

func New(store *atoms.Store, index *lineindex.Index) *Resolver {
	return &Resolver{store: store, index: index}
}

// ResolveEntry maps one entry to an atom. A recorded symbol id that exists
// in the store is authoritative; a stale id falls back to the positional
// lookup instead of failing outright.
func (r *Resolver) ResolveEntry(entry Entry) Resolution {
	res := Resolution{Entry: entry}

	if entry.Symbol != "" {
		if atom, ok := r.store.Get(entry.Symbol); ok {
			res.Outcome = Resolved
			res.Symbol = entry.Symbol
			res.Atom = atom
			pathDrift := entry.CodePath != "" && entry.CodePath != atom.CodePath
			lineDrift := entry.CodeLine != 0 && entry.CodeLine != atom.LineStart
			if pathDrift || lineDrift {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"recorded position %s:%d differs from atom %s:%d; trusting symbol %q",
					entry.CodePath, entry.CodeLine, atom.CodePath, atom.LineStart, entry.Symbol,
				))
			}
			return res
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"symbol %q not in current atom store; falling back to position lookup", entry.Symbol,
		))
	}

	if entry.CodePath == "" || entry.CodeLine == 0 {
		res.Outcome = MissingInfo
		res.Reason = "missing code-path or code-line"
		return res
	}

	lookup := r.index.Lookup(entry.CodePath, entry.CodeLine)
	if !lookup.Covered {
		res.Outcome = NoMatch
		res.Reason = fmt.Sprintf("code-path %q has no indexed atoms", entry.CodePath)
		return res
	}
	match, ambiguous, ok := lookup.Preferred(entry.CodeLine)
	if !ok {
		res.Outcome = NoMatch
		res.Reason = fmt.Sprintf("no interval overlapping %s:%d", entry.CodePath, entry.CodeLine)
		return res
	}

	atom, _ := r.store.Get(match.Symbol)
	res.Outcome = Resolved
	res.Symbol = match.Symbol
	res.Atom = atom
	res.Ambiguous = ambiguous
	if ambiguous {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"multiple intervals start at %s:%d; picked %q", entry.CodePath, entry.CodeLine, match.Symbol,
		))
	}
	return res
}

// Resolve processes a batch in order. Failures never stop the remaining
// entries; the stats report the three disjoint buckets.
func (r *Resolver) Resolve(entries []Entry) ([]Resolution, Stats) {
	resolutions := make([]Resolution, 0, len(entries))
	var stats Stats
	for _, entry := range entries {
		res := r.ResolveEntry(entry)
		switch res.Outcome {
		case Resolved:
			stats.Resolved++
		case MissingInfo:
			stats.MissingInfo++
		case NoMatch:
			stats.NoMatch++
		}
		if res.Ambiguous {
			stats.Ambiguous++
		}
		stats.Warnings += len(res.Warnings)
		resolutions = append(resolutions, res)
	}
	return resolutions, stats
}
