package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetInfo("rootmind")
		if outputJSON {
			_ = json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.String("rootmind"))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}
