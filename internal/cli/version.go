package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pivotpress/pkg/buildinfo"
)

// newVersionCmd creates the version command printing build information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
