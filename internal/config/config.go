// Package config resolves the per-project configuration and the .verilib
// path layout. Components receive an explicit Paths value; nothing reads
// ambient globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DirName  = ".verilib"
	FileName = "config.yaml"
)

// Form selects how the tracked structure is persisted.
type Form string

const (
	// FormJSON keeps the whole structure in one stubs.json mapping.
	FormJSON Form = "json"
	// FormFiles keeps one markdown file per stub, metadata in YAML
	// frontmatter.
	FormFiles Form = "files"
)

type Config struct {
	StructureForm Form   `yaml:"structure-form"`
	StructureRoot string `yaml:"structure-root"`
	ProbePrefix   string `yaml:"probe-prefix,omitempty"`
	ProbeBin      string `yaml:"probe-bin,omitempty"`
}

// Paths is the resolved .verilib layout for one project root. All fields
// are absolute.
type Paths struct {
	ProjectRoot     string
	VerilibDir      string
	ConfigPath      string
	StructureRoot   string
	StubsPath       string
	AtomsPath       string
	ProofsPath      string
	SpecsPath       string
	CertsVerifyDir  string
	CertsSpecifyDir string
}

func Default() Config {
	return Config{
		StructureForm: FormJSON,
		StructureRoot: filepath.Join(DirName, "structure"),
	}
}

func PathsFor(projectRoot string, cfg Config) Paths {
	verilibDir := filepath.Join(projectRoot, DirName)
	structureRoot := cfg.StructureRoot
	if structureRoot == "" {
		structureRoot = filepath.Join(DirName, "structure")
	}
	return Paths{
		ProjectRoot:     projectRoot,
		VerilibDir:      verilibDir,
		ConfigPath:      filepath.Join(verilibDir, FileName),
		StructureRoot:   filepath.Join(projectRoot, structureRoot),
		StubsPath:       filepath.Join(verilibDir, "stubs.json"),
		AtomsPath:       filepath.Join(verilibDir, "atoms.json"),
		ProofsPath:      filepath.Join(verilibDir, "proofs.json"),
		SpecsPath:       filepath.Join(verilibDir, "specs.json"),
		CertsVerifyDir:  filepath.Join(verilibDir, "certs", "verify"),
		CertsSpecifyDir: filepath.Join(verilibDir, "certs", "specify"),
	}
}

// Load reads .verilib/config.yaml under projectRoot. A .env next to the
// project root participates; VERILIB_* environment variables win over the
// file.
func Load(projectRoot string) (Config, Paths, error) {
	probe := PathsFor(projectRoot, Default())

	data, err := os.ReadFile(probe.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, Paths{}, fmt.Errorf(
				"%s not found (run 'verilib-structure create' first)", probe.ConfigPath)
		}
		return Config{}, Paths{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, Paths{}, fmt.Errorf("failed to parse %s: %w", probe.ConfigPath, err)
	}

	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
	if bin := os.Getenv("VERILIB_PROBE_BIN"); bin != "" {
		cfg.ProbeBin = bin
	}
	if prefix := os.Getenv("VERILIB_PROBE_PREFIX"); prefix != "" {
		cfg.ProbePrefix = prefix
	}

	switch cfg.StructureForm {
	case FormJSON, FormFiles:
	default:
		return Config{}, Paths{}, fmt.Errorf(
			"unknown structure-form %q (expected %q or %q)", cfg.StructureForm, FormJSON, FormFiles)
	}

	return cfg, PathsFor(projectRoot, cfg), nil
}

// Save writes the config file, creating the .verilib directory if needed.
func Save(paths Paths, cfg Config) error {
	if err := os.MkdirAll(paths.VerilibDir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(paths.ConfigPath, data, 0644)
}
