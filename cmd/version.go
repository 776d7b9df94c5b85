package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at release time; this repo carries no build-info
// tagging infrastructure beyond this constant.
const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the as-mips version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "as-mips %s\n", version)
		return nil
	},
}
