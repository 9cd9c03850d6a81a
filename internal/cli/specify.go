package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/certs"
	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/probe"
	"github.com/verilib-dev/structure/internal/reconcile"
	"github.com/verilib-dev/structure/internal/structure"
)

func RunSpecify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveProjectRoot(args)
	if err != nil {
		return err
	}
	cfg, paths, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	certifyAll, err := boolFlag(cmd, "all")
	if err != nil {
		return err
	}
	specsOverride, err := stringFlag(cmd, "specs")
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	var results map[string]probe.SpecResult
	if specsOverride != "" {
		specsPath, err := filepath.Abs(specsOverride)
		if err != nil {
			return fmt.Errorf("failed to resolve --specs path: %w", err)
		}
		if results, err = probe.LoadSpecResults(specsPath); err != nil {
			return err
		}
	} else {
		if _, err := os.Stat(paths.AtomsPath); err != nil {
			return fmt.Errorf("%s not found (run 'verilib-structure atomize' first)", paths.AtomsPath)
		}
		runner := probe.NewRunner(cfg.ProbeBin)
		if err := runner.RequireInstalled(); err != nil {
			return err
		}
		if results, err = runner.Specify(rootPath, paths.SpecsPath, paths.AtomsPath); err != nil {
			return err
		}
	}

	st, err := structure.Load(cfg, paths)
	if err != nil {
		return err
	}
	tracked := st.Set.Names()

	store := certs.Store{Dir: paths.CertsSpecifyDir}
	existing, err := store.Existing()
	if err != nil {
		return err
	}

	specified := probe.Specified(results)
	var candidates []string
	for name := range specified {
		if tracked[name] && !existing[name] {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)

	if len(candidates) == 0 {
		if asJSON {
			return PrintCertSummary(CertSummary{
				Mode:       "specify",
				RootPath:   rootPath,
				DurationMS: time.Since(start).Milliseconds(),
				Report:     reconcile.Report{Before: len(existing), After: len(existing)},
			}, true)
		}
		fmt.Printf("no uncertified specified symbols (certs=%d)\n", len(existing))
		return nil
	}

	selected := candidates
	if !certifyAll {
		items := make([]SelectionItem, 0, len(candidates))
		for _, name := range candidates {
			item := SelectionItem{Symbol: name, Display: atoms.DisplayName(name)}
			if res, ok := specified[name]; ok && res.File != "" {
				item.Location = fmt.Sprintf("%s:%d", res.File, res.StartLine)
			}
			items = append(items, item)
		}
		fmt.Printf("Specified but uncertified symbols (%d):\n", len(items))
		if selected, err = PromptSelection(os.Stdin, os.Stdout, items); err != nil {
			return err
		}
	}

	report := reconcile.Apply(store, reconcile.Plan{Create: selected}, len(existing))
	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "warning: %s\n", failure)
	}

	if err := PrintCertSummary(CertSummary{
		Mode:       "specify",
		RootPath:   rootPath,
		Title:      "Specification certificates",
		DurationMS: time.Since(start).Milliseconds(),
		Report:     report,
	}, asJSON); err != nil {
		return err
	}
	if report.Partial() {
		return fmt.Errorf("%d certificate actions failed", len(report.Failures))
	}
	return nil
}
