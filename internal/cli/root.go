package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "verilib-structure",
		Short:   "Manage verification structure files and certification state",
		Version: version,
		Long: `verilib-structure tracks the certification state of analyzed code
artifacts. It enriches tracked structure entries with analyzer metadata
and reconciles on-disk certificates against verification and
specification results.`,
	}

	createCmd := &cobra.Command{
		Use:   "create [project-root]",
		Short: "Initialize the .verilib directory and structure store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunCreate,
	}
	createCmd.Flags().String("form", "json", "Structure form: json|files")
	createCmd.Flags().String("structure-root", "", "Root directory for structure files")

	atomizeCmd := &cobra.Command{
		Use:   "atomize [project-root]",
		Short: "Enrich structure entries with analyzer metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunAtomize,
	}
	atomizeCmd.Flags().BoolP("update-stubs", "s", false, "Rewrite stub positions from resolved atoms")
	atomizeCmd.Flags().String("atoms", "", "Use an existing atoms.json instead of running the analyzer")
	atomizeCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	verifyCmd := &cobra.Command{
		Use:   "verify [project-root]",
		Short: "Run verification and reconcile verification certs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunVerify,
	}
	verifyCmd.Flags().String("module", "", "Only verify functions in this module")
	verifyCmd.Flags().String("proofs", "", "Use an existing proofs.json instead of running the analyzer")
	verifyCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	specifyCmd := &cobra.Command{
		Use:   "specify [project-root]",
		Short: "Check specification status and manage spec certs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunSpecify,
	}
	specifyCmd.Flags().Bool("all", false, "Certify every uncertified symbol without prompting")
	specifyCmd.Flags().String("specs", "", "Use an existing specs.json instead of running the analyzer")
	specifyCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	statusCmd := &cobra.Command{
		Use:   "status [project-root]",
		Short: "Show tracked structure and certificate counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	rootCmd.AddCommand(createCmd, atomizeCmd, verifyCmd, specifyCmd, statusCmd)
	return rootCmd
}
