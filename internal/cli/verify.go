package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/verilib-dev/structure/internal/certs"
	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/fileutil"
	"github.com/verilib-dev/structure/internal/probe"
	"github.com/verilib-dev/structure/internal/reconcile"
	"github.com/verilib-dev/structure/internal/structure"
)

func RunVerify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rootPath, err := resolveProjectRoot(args)
	if err != nil {
		return err
	}
	cfg, paths, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	onlyModule, err := stringFlag(cmd, "module")
	if err != nil {
		return err
	}
	proofsOverride, err := stringFlag(cmd, "proofs")
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	var results map[string]probe.VerifyResult
	if proofsOverride != "" {
		proofsPath, err := filepath.Abs(proofsOverride)
		if err != nil {
			return fmt.Errorf("failed to resolve --proofs path: %w", err)
		}
		if results, err = probe.LoadVerifyResults(proofsPath); err != nil {
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
		if results, err = runner.Verify(rootPath, paths.ProofsPath, paths.AtomsPath, onlyModule); err != nil {
			return err
		}
	}

	st, err := structure.Load(cfg, paths)
	if err != nil {
		return err
	}
	tracked := st.Set.Names()

	verifiedIn, failedIn := probe.Partition(results)
	verified := fileutil.Intersect(verifiedIn, tracked)
	failed := fileutil.Intersect(failedIn, tracked)

	store := certs.Store{Dir: paths.CertsVerifyDir}
	existing, err := store.Existing()
	if err != nil {
		return err
	}

	plan := reconcile.Compute(verified, existing, fileutil.Union(verified, failed))
	report := reconcile.Apply(store, plan, len(existing))
	for _, failure := range report.Failures {
		fmt.Fprintf(os.Stderr, "warning: %s\n", failure)
	}

	if err := PrintCertSummary(CertSummary{
		Mode:       "verify",
		RootPath:   rootPath,
		Title:      "Verification certificates",
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
