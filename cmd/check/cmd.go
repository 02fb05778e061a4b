package check

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-solvent/solvent/internal/certify"
	"github.com/go-solvent/solvent/internal/derivation"
)

func NewCheckCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Certifies that a recorded derivation is sound",
		Long: `Certifies that a recorded derivation is sound: every conflict step must
be entailed by the two steps it claims as parents. Steps with any other
cause are the derivation's axioms and are taken at face value.

See 'solvent explain --help' for the derivation file format.
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd, args[0], quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report the verdict")
	return cmd
}

func check(cmd *cobra.Command, path string, quiet bool) error {
	f, err := derivation.Load(path)
	if err != nil {
		return err
	}

	tracer := certify.Tracer(certify.DefaultTracer{})
	if !quiet {
		tracer = certify.LoggingTracer{Writer: cmd.OutOrStdout()}
	}
	checker, err := certify.New(certify.WithTracer(tracer))
	if err != nil {
		return err
	}

	if err := checker.Check(f); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "derivation certified")
	return nil
}
