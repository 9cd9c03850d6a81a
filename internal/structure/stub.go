// Package structure owns the tracked stub records and their persistence:
// one stubs.json mapping in json form, or one markdown file per stub with
// YAML frontmatter in files form.
package structure

import (
	"sort"

	"github.com/verilib-dev/structure/internal/resolver"
)

// LineRange is a closed 1-based interval.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Stub is one tracked artifact's bookkeeping record, pre- or
// post-enrichment.
type Stub struct {
	CodeName     string     `json:"code-name,omitempty" yaml:"code-name,omitempty"`
	CodePath     string     `json:"code-path,omitempty" yaml:"code-path,omitempty"`
	CodeLine     int        `json:"code-line,omitempty" yaml:"code-line,omitempty"`
	CodeLines    *LineRange `json:"code-lines,omitempty" yaml:"code-lines,omitempty"`
	CodeModule   string     `json:"code-module,omitempty" yaml:"code-module,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DisplayName  string     `json:"display-name,omitempty" yaml:"display-name,omitempty"`
	Verified     bool       `json:"verified,omitempty" yaml:"verified,omitempty"`
	Specified    bool       `json:"specified,omitempty" yaml:"specified,omitempty"`
	SpecText     string     `json:"spec-text,omitempty" yaml:"spec-text,omitempty"`
}

// Entry projects the resolvable fields for the symbol resolver. A stub
// that records a line range but no code-line falls back to the range
// start.
func (s Stub) Entry(key string) resolver.Entry {
	line := s.CodeLine
	if line == 0 && s.CodeLines != nil {
		line = s.CodeLines.Start
	}
	return resolver.Entry{
		Key:      key,
		Symbol:   s.CodeName,
		CodePath: s.CodePath,
		CodeLine: line,
	}
}

// Set is the tracked structure keyed by tracking key.
type Set map[string]Stub

func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Names returns the set of symbol ids the structure currently tracks.
func (s Set) Names() map[string]bool {
	names := make(map[string]bool, len(s))
	for _, stub := range s {
		if stub.CodeName != "" {
			names[stub.CodeName] = true
		}
	}
	return names
}

// Entries lists the resolver inputs in deterministic key order.
func (s Set) Entries() []resolver.Entry {
	entries := make([]resolver.Entry, 0, len(s))
	for _, key := range s.Keys() {
		entries = append(entries, s[key].Entry(key))
	}
	return entries
}
