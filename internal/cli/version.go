package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version, stamped at build time with -ldflags.
var Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/backdesk"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the backdesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "backdesk v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
