package explain

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-solvent/solvent/internal/derivation"
	"github.com/go-solvent/solvent/pkg/solvent"
)

func NewExplainCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "explain <path>",
		Short: "Explains why a recorded version solve failed",
		Long: `Explains why a recorded version solve failed. The derivation file lists
the incompatibilities the solver produced, in TOML. For instance:

root = "myapp"

[[incompatibility]]
id    = "app-foo"
cause = "dependency"          # dependency | sdk | no-versions | root | conflict
terms = ["myapp", "not foo ^1.0.0"]

[[incompatibility]]
id    = "no-foo"
cause = "no-versions"
terms = ["foo ^1.0.0"]

[[incompatibility]]
id    = "goal"
cause = "conflict"
of    = ["app-foo", "no-foo"] # the two steps this one was derived from
terms = []

explains as:

Because myapp depends on foo ^1.0.0 and no versions of foo match ^1.0.0, version solving failed.
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			return explain(cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "render the explanation without emphasis")
	return cmd
}

func explain(cmd *cobra.Command, path string) error {
	f, err := derivation.Load(path)
	if err != nil {
		return err
	}

	goal, err := f.Goal()
	if err != nil {
		return fmt.Errorf("invalid derivation file (%s): %w", path, err)
	}

	bold := color.New(color.Bold)
	failure := solvent.NewSolveFailure(goal,
		solvent.WithDetails(solvent.DetailHints(goal)),
		solvent.WithEmphasis(func(s string) string { return bold.Sprint(s) }),
	)
	fmt.Fprintln(cmd.OutOrStdout(), failure.Error())
	return nil
}
