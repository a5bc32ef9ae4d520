package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// newLookCmd creates the look command group for working with look files.
func newLookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "look",
		Short: "Work with table look files",
	}
	cmd.AddCommand(newLookInitCmd())
	cmd.AddCommand(newLookCheckCmd())
	return cmd
}

// newLookInitCmd writes the builtin default look as a TOML file, as a
// starting point for customization.
func newLookInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default look to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			look := pivot.NewLook()
			if err := look.SaveFile(args[0]); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("wrote default look", "path", args[0])
			return nil
		},
	}
}

// newLookCheckCmd parses a look file and reports problems.
func newLookCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a look file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			look, err := pivot.LoadLookFile(args[0])
			if err != nil {
				return err
			}
			name := look.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
			return nil
		},
	}
}
