// Package probe drives the external probe-verus analyzer and parses its
// result documents. The analyzer owns all language understanding; this
// package only shells out and decodes JSON.
package probe

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const DefaultBin = "probe-verus"

type Runner struct {
	Bin string
}

func NewRunner(bin string) Runner {
	if bin == "" {
		bin = DefaultBin
	}
	return Runner{Bin: bin}
}

func (r Runner) RequireInstalled() error {
	if _, err := exec.LookPath(r.Bin); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.Bin, err)
	}
	return nil
}

func (r Runner) run(dir string, args ...string) error {
	cmd := exec.Command(r.Bin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s %s failed: %w\n%s", r.Bin, args[0], err, msg)
		}
		return fmt.Errorf("%s %s failed: %w", r.Bin, args[0], err)
	}
	return nil
}

// Atomize runs the analyzer over projectRoot and leaves the atom document
// at atomsPath.
func (r Runner) Atomize(projectRoot, atomsPath string) error {
	if err := os.MkdirAll(filepath.Dir(atomsPath), 0755); err != nil {
		return err
	}
	if err := r.run("", "atomize", projectRoot, "-o", atomsPath, "-r"); err != nil {
		return err
	}
	cleanupIntermediates(projectRoot)
	return nil
}

// Verify runs verification and returns the parsed proof results.
func (r Runner) Verify(projectRoot, proofsPath, atomsPath, onlyModule string) (map[string]VerifyResult, error) {
	if err := os.MkdirAll(filepath.Dir(proofsPath), 0755); err != nil {
		return nil, err
	}
	args := []string{"verify", projectRoot, "-o", proofsPath, "-a", atomsPath}
	if onlyModule != "" {
		args = append(args, "--verify-only-module", onlyModule)
	}
	if err := r.run(projectRoot, args...); err != nil {
		return nil, err
	}
	cleanupIntermediates(projectRoot)
	return LoadVerifyResults(proofsPath)
}

// Specify runs spec analysis and returns the parsed results.
func (r Runner) Specify(projectRoot, specsPath, atomsPath string) (map[string]SpecResult, error) {
	if err := os.MkdirAll(filepath.Dir(specsPath), 0755); err != nil {
		return nil, err
	}
	if err := r.run(projectRoot, "specify", projectRoot, "-o", specsPath, "-a", atomsPath); err != nil {
		return nil, err
	}
	return LoadSpecResults(specsPath)
}

// The analyzer drops SCIP intermediates next to the project; they are not
// ours to keep.
var intermediateFiles = []string{
	filepath.Join("data", "index.scip"),
	filepath.Join("data", "index.scip.json"),
}

func cleanupIntermediates(projectRoot string) {
	for _, rel := range intermediateFiles {
		_ = os.Remove(filepath.Join(projectRoot, rel))
	}
	dataDir := filepath.Join(projectRoot, "data")
	if entries, err := os.ReadDir(dataDir); err == nil && len(entries) == 0 {
		_ = os.Remove(dataDir)
	}
}
