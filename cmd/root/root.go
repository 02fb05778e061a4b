package root

import (
	"github.com/spf13/cobra"

	"github.com/go-solvent/solvent/cmd/check"

	"github.com/go-solvent/solvent/cmd/explain"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "solvent",
		Short: "Solvent explains version solver failures",
		Long: `Tools for recorded version solver derivations: render the human-readable
story of a failed solve, or certify that each derived conflict actually
follows from its parents.`,
	}

	// add sub-commands
	rootCmd.AddCommand(explain.NewExplainCommand())
	rootCmd.AddCommand(check.NewCheckCommand())

	return rootCmd
}
