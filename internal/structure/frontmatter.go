package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verilib-dev/structure/internal/fileutil"
)

// Frontmatter is the YAML header of one structure markdown file plus its
// untouched body.
type Frontmatter struct {
	Fields map[string]any
	Body   string
}

const delimiter = "---\n"

// ParseFrontmatter splits a markdown document into its YAML header and
// body. The body is everything after the closing delimiter line.
func ParseFrontmatter(data []byte) (*Frontmatter, error) {
	text := string(data)
	if !strings.HasPrefix(text, delimiter) {
		return nil, fmt.Errorf("no frontmatter found")
	}
	rest := text[len(delimiter):]

	var header, body string
	if idx := strings.Index(rest, "\n---\n"); idx >= 0 {
		header = rest[:idx+1]
		body = rest[idx+len("\n---\n"):]
	} else if trimmed, ok := strings.CutSuffix(rest, "\n---"); ok {
		header = trimmed + "\n"
	} else {
		return nil, fmt.Errorf("unterminated frontmatter")
	}

	fields := make(map[string]any)
	if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Frontmatter{Fields: fields, Body: body}, nil
}

// stubKeyOrder fixes the header layout so rewrites are diffable.
var stubKeyOrder = []string{
	"code-name",
	"code-path",
	"code-line",
	"code-lines",
	"code-module",
	"dependencies",
	"display-name",
	"verified",
	"specified",
	"spec-text",
}

// Render serializes the frontmatter with canonical stub keys first and any
// foreign keys after them in sorted order.
func (fm *Frontmatter) Render() ([]byte, error) {
	doc := yaml.Node{Kind: yaml.MappingNode}
	emitted := make(map[string]bool, len(fm.Fields))

	appendField := func(key string) error {
		value, ok := fm.Fields[key]
		if !ok || emitted[key] {
			return nil
		}
		var keyNode, valueNode yaml.Node
		if err := keyNode.Encode(key); err != nil {
			return err
		}
		if err := valueNode.Encode(value); err != nil {
			return fmt.Errorf("failed to encode frontmatter key %q: %w", key, err)
		}
		doc.Content = append(doc.Content, &keyNode, &valueNode)
		emitted[key] = true
		return nil
	}

	for _, key := range stubKeyOrder {
		if err := appendField(key); err != nil {
			return nil, err
		}
	}
	extra := make([]string, 0, len(fm.Fields))
	for key := range fm.Fields {
		if !emitted[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		if err := appendField(key); err != nil {
			return nil, err
		}
	}

	var header []byte
	if len(doc.Content) > 0 {
		var err error
		header, err = yaml.Marshal(&doc)
		if err != nil {
			return nil, err
		}
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.Write(header)
	b.WriteString("---\n")
	b.WriteString(fm.Body)
	return []byte(b.String()), nil
}

func ParseFrontmatterFile(path string) (*Frontmatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fm, err := ParseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fm, nil
}

func WriteFrontmatterFile(path string, fm *Frontmatter) error {
	data, err := fm.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return fileutil.WriteIfChanged(path, data)
}

// StubFromFields extracts the tracked record from parsed frontmatter,
// tolerating the numeric types both YAML and JSON decoders produce.
func StubFromFields(fields map[string]any) Stub {
	stub := Stub{
		CodeName:     asString(fields["code-name"]),
		CodePath:     asString(fields["code-path"]),
		CodeLine:     asInt(fields["code-line"]),
		CodeModule:   asString(fields["code-module"]),
		Dependencies: asStringSlice(fields["dependencies"]),
		DisplayName:  asString(fields["display-name"]),
		Verified:     asBool(fields["verified"]),
		Specified:    asBool(fields["specified"]),
		SpecText:     asString(fields["spec-text"]),
	}
	if lines, ok := fields["code-lines"].(map[string]any); ok {
		stub.CodeLines = &LineRange{Start: asInt(lines["start"]), End: asInt(lines["end"])}
	}
	return stub
}

// ApplyTo writes the stub's canonical keys into frontmatter fields,
// leaving foreign keys alone. Zero values do not clobber existing keys.
func (s Stub) ApplyTo(fields map[string]any) {
	setIf(fields, "code-name", s.CodeName, s.CodeName != "")
	setIf(fields, "code-path", s.CodePath, s.CodePath != "")
	setIf(fields, "code-line", s.CodeLine, s.CodeLine != 0)
	if s.CodeLines != nil {
		fields["code-lines"] = map[string]any{"start": s.CodeLines.Start, "end": s.CodeLines.End}
	}
	setIf(fields, "code-module", s.CodeModule, s.CodeModule != "")
	setIf(fields, "dependencies", s.Dependencies, s.Dependencies != nil)
	setIf(fields, "display-name", s.DisplayName, s.DisplayName != "")
	setIf(fields, "verified", s.Verified, s.Verified)
	setIf(fields, "specified", s.Specified, s.Specified)
	setIf(fields, "spec-text", s.SpecText, s.SpecText != "")
}

func setIf(fields map[string]any, key string, value any, ok bool) {
	if ok {
		fields[key] = value
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
