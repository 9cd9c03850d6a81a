package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/verilib-dev/structure/internal/atoms"
	"github.com/verilib-dev/structure/internal/certs"
	"github.com/verilib-dev/structure/internal/config"
	"github.com/verilib-dev/structure/internal/structure"
)

func RunStatus(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveProjectRoot(args)
	if err != nil {
		return err
	}
	cfg, paths, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}

	st, err := structure.Load(cfg, paths)
	if err != nil {
		return err
	}
	enriched := 0
	for _, stub := range st.Set {
		if stub.CodeName != "" {
			enriched++
		}
	}

	atomCount := 0
	if _, err := os.Stat(paths.AtomsPath); err == nil {
		store, err := atoms.Load(paths.AtomsPath)
		if err != nil {
			return err
		}
		if cfg.ProbePrefix != "" {
			store = store.FilterPrefix(cfg.ProbePrefix)
		}
		atomCount = store.Len()
	}

	verifyCerts, err := certs.Store{Dir: paths.CertsVerifyDir}.Existing()
	if err != nil {
		return err
	}
	specifyCerts, err := certs.Store{Dir: paths.CertsSpecifyDir}.Existing()
	if err != nil {
		return err
	}

	return PrintStatusSummary(StatusSummary{
		Mode:         "status",
		RootPath:     rootPath,
		Form:         string(cfg.StructureForm),
		Tracked:      len(st.Set),
		Enriched:     enriched,
		Malformed:    st.Malformed,
		Atoms:        atomCount,
		VerifyCerts:  len(verifyCerts),
		SpecifyCerts: len(specifyCerts),
	}, asJSON)
}
