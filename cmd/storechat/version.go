package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/storechat"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of storechat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "storechat version %s\n", strings.TrimSpace(storechat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
