package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/fileutil"
)

var gitignoreBody = []byte(`atoms.json
proofs.json
specs.json
`)

func RunCreate(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveProjectRoot(args)
	if err != nil {
		return err
	}
	form, err := stringFlag(cmd, "form")
	if err != nil {
		return err
	}
	structureRoot, err := stringFlag(cmd, "structure-root")
	if err != nil {
		return err
	}

	cfg := config.Default()
	switch config.Form(form) {
	case config.FormJSON, config.FormFiles:
		cfg.StructureForm = config.Form(form)
	default:
		return fmt.Errorf("unknown --form %q (expected %q or %q)", form, config.FormJSON, config.FormFiles)
	}
	if structureRoot != "" {
		cfg.StructureRoot = structureRoot
	}
	paths := config.PathsFor(rootPath, cfg)

	if _, err := os.Stat(paths.ConfigPath); err == nil {
		fmt.Printf("config already present at %s; leaving it untouched\n", paths.ConfigPath)
		existing, existingPaths, err := config.Load(rootPath)
		if err != nil {
			return err
		}
		cfg, paths = existing, existingPaths
	} else {
		if err := config.Save(paths, cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	for _, dir := range []string{paths.CertsVerifyDir, paths.CertsSpecifyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := fileutil.WriteIfMissing(
		filepath.Join(paths.VerilibDir, ".gitignore"), gitignoreBody, 0644); err != nil {
		return fmt.Errorf("failed to write .gitignore: %w", err)
	}

	switch cfg.StructureForm {
	case config.FormFiles:
		if err := os.MkdirAll(paths.StructureRoot, 0755); err != nil {
			return fmt.Errorf("failed to create structure root: %w", err)
		}
	default:
		if err := fileutil.WriteIfMissing(paths.StubsPath, []byte("{}\n"), 0644); err != nil {
			return fmt.Errorf("failed to write stubs.json: %w", err)
		}
	}

	fmt.Printf("Initialized %s (form=%s)\n", paths.VerilibDir, cfg.StructureForm)
	return nil
}
