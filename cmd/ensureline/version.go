package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ensureline",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ensureline version %s\n", strings.TrimSpace(ensureline.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
