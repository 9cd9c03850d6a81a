package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/lineindex"
	"github.com/verilib-dev/structure/internal/probe"
	"github.com/verilib-dev/structure/internal/resolver"
	"github.com/verilib-dev/structure/internal/structure"
)

func RunAtomize(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveProjectRoot(args)
	if err != nil {
		return err
	}
	cfg, paths, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	updateStubs, err := boolFlag(cmd, "update-stubs")
	if err != nil {
		return err
	}
	atomsOverride, err := stringFlag(cmd, "atoms")
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	atomsPath := paths.AtomsPath
	if atomsOverride != "" {
		if atomsPath, err = filepath.Abs(atomsOverride); err != nil {
			return fmt.Errorf("failed to resolve --atoms path: %w", err)
		}
	} else {
		runner := probe.NewRunner(cfg.ProbeBin)
		if err := runner.RequireInstalled(); err != nil {
			return err
		}
		if err := runner.Atomize(rootPath, atomsPath); err != nil {
			return err
		}
	}

	store, err := atoms.Load(atomsPath)
	if err != nil {
		return err
	}
	if cfg.ProbePrefix != "" {
		store = store.FilterPrefix(cfg.ProbePrefix)
	}
	index := lineindex.Build(store)

	st, err := structure.Load(cfg, paths)
	if err != nil {
		return err
	}

	resolutions, stats := resolver.New(store, index).Resolve(st.Set.Entries())
	for _, res := range resolutions {
		for _, warning := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", res.Entry.Key, warning)
		}
		if res.Reason != "" {
			fmt.Fprintf(os.Stderr, "warning: %s not resolved: %s\n", res.Entry.Key, res.Reason)
		}
	}

	enriched := st.Set.ApplyResolutions(resolutions)
	if err := st.Save(enriched, updateStubs); err != nil {
		return err
	}

	return PrintAtomizeSummary(AtomizeSummary{
		Mode:         "atomize",
		RootPath:     rootPath,
		Atoms:        store.Len(),
		Skipped:      store.Skipped,
		Tracked:      len(st.Set),
		Resolved:     stats.Resolved,
		MissingInfo:  stats.MissingInfo,
		NoMatch:      stats.NoMatch,
		Ambiguous:    stats.Ambiguous,
		Enriched:     len(enriched),
		Malformed:    st.Malformed,
		UpdatedStubs: updateStubs,
		DurationMS:   time.Since(start).Milliseconds(),
	}, asJSON)
}
