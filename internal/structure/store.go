package structure

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/fileutil"
)

// Store is the loaded tracked structure in either persistence form.
type Store struct {
	Form config.Form
	Set  Set

	// Malformed counts structure files skipped for unparseable
	// frontmatter (files form only).
	Malformed int

	fronts map[string]*Frontmatter
	paths  config.Paths
}

func Load(cfg config.Config, paths config.Paths) (*Store, error) {
	st := &Store{
		Form:   cfg.StructureForm,
		Set:    Set{},
		fronts: make(map[string]*Frontmatter),
		paths:  paths,
	}
	switch cfg.StructureForm {
	case config.FormFiles:
		if err := st.loadFiles(); err != nil {
			return nil, err
		}
	default:
		if err := st.loadJSON(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (st *Store) loadJSON() error {
	data, err := os.ReadFile(st.paths.StubsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s not found (run 'verilib-structure create' first)", st.paths.StubsPath)
		}
		return fmt.Errorf("failed to read structure: %w", err)
	}
	if err := json.Unmarshal(data, &st.Set); err != nil {
		return fmt.Errorf("failed to decode %s: %w", st.paths.StubsPath, err)
	}
	return nil
}

func (st *Store) loadFiles() error {
	root := st.paths.StructureRoot
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("structure root %s not found (run 'verilib-structure create' first)", root)
		}
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		fm, err := ParseFrontmatterFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
			st.Malformed++
			return nil
		}
		key, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		st.Set[key] = StubFromFields(fm.Fields)
		st.fronts[key] = fm
		return nil
	})
}

// Save persists the structure. In files form the enriched entries get a
// companion <stub>.meta.json with the canonical record; updateStubs also
// rewrites the markdown frontmatter from the enriched stub, preserving the
// body and any foreign keys.
func (st *Store) Save(enriched map[string]bool, updateStubs bool) error {
	if st.Form != config.FormFiles {
		return fileutil.WriteJSON(st.paths.StubsPath, st.Set)
	}

	for _, key := range st.Set.Keys() {
		if !enriched[key] {
			continue
		}
		stub := st.Set[key]
		metaPath := filepath.Join(st.paths.StructureRoot, strings.TrimSuffix(key, ".md")+".meta.json")
		if err := fileutil.WriteJSON(metaPath, stub); err != nil {
			return fmt.Errorf("failed to write metadata for %s: %w", key, err)
		}
		if !updateStubs {
			continue
		}
		fm := st.fronts[key]
		if fm == nil {
			continue
		}
		stub.ApplyTo(fm.Fields)
		if err := WriteFrontmatterFile(filepath.Join(st.paths.StructureRoot, key), fm); err != nil {
			return fmt.Errorf("failed to rewrite %s: %w", key, err)
		}
	}
	return nil
}
