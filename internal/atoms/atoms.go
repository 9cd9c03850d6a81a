// Package atoms holds the analyzer-produced symbol records for one run.
//
// The store is rebuilt from atoms.json on every invocation and never
// mutated after loading.
package atoms

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Atom describes where one analyzed symbol lives and what it depends on.
// Line numbers are 1-based and inclusive on both ends.
type Atom struct {
	Name         string
	CodePath     string
	LineStart    int
	LineEnd      int
	Module       string
	Dependencies []string
	DisplayName  string
}

// Store maps symbol ids to their atoms for a single analyzer run.
type Store struct {
	atoms map[string]Atom

	// Skipped counts records dropped at the JSON boundary for missing
	// code-path or line information.
	Skipped int
}

type rawAtom struct {
	CodePath     string   `json:"code-path"`
	CodeText     *rawText `json:"code-text"`
	Module       string   `json:"code-module"`
	Dependencies []string `json:"dependencies"`
	DisplayName  string   `json:"display-name"`
}

type rawText struct {
	LinesStart *int `json:"lines-start"`
	LinesEnd   *int `json:"lines-end"`
}

func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read atoms from %s: %w", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode atoms from %s: %w", path, err)
	}
	return store, nil
}

// Parse validates the analyzer JSON and builds a store. Records missing
// required fields are counted in Skipped rather than failing the load.
func Parse(data []byte) (*Store, error) {
	var raw map[string]rawAtom
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	store := &Store{atoms: make(map[string]Atom, len(raw))}
	for name, entry := range raw {
		atom, ok := entry.toAtom(name)
		if !ok {
			store.Skipped++
			continue
		}
		store.atoms[name] = atom
	}
	return store, nil
}

func (r rawAtom) toAtom(name string) (Atom, bool) {
	if r.CodePath == "" || r.CodeText == nil || r.CodeText.LinesStart == nil || r.CodeText.LinesEnd == nil {
		return Atom{}, false
	}
	start, end := *r.CodeText.LinesStart, *r.CodeText.LinesEnd
	if start < 0 || end < start {
		return Atom{}, false
	}
	deps := r.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return Atom{
		Name:         name,
		CodePath:     r.CodePath,
		LineStart:    start,
		LineEnd:      end,
		Module:       r.Module,
		Dependencies: deps,
		DisplayName:  r.DisplayName,
	}, true
}

func (s *Store) Get(name string) (Atom, bool) {
	atom, ok := s.atoms[name]
	return atom, ok
}

func (s *Store) Len() int {
	return len(s.atoms)
}

// All returns every atom ordered by symbol id.
func (s *Store) All() []Atom {
	out := make([]Atom, 0, len(s.atoms))
	for _, atom := range s.atoms {
		out = append(out, atom)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FilterPrefix keeps only symbols under probe:<prefix>/. The analyzer
// emits atoms for dependency crates too; those stay out of the index.
func (s *Store) FilterPrefix(prefix string) *Store {
	uriPrefix := "probe:" + prefix + "/"
	filtered := &Store{atoms: make(map[string]Atom), Skipped: s.Skipped}
	for name, atom := range s.atoms {
		if strings.HasPrefix(name, uriPrefix) {
			filtered.atoms[name] = atom
		}
	}
	return filtered
}

// DisplayName extracts the short name from a full symbol id, e.g. "f" from
// "probe:crate/mod#f()".
func DisplayName(name string) string {
	if pos := strings.LastIndex(name, "#"); pos >= 0 {
		return strings.TrimSuffix(name[pos+1:], "()")
	}
	return name
}
