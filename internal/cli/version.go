package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildVersion = "dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "focusos %s\n", buildVersion)
		},
	}
}
