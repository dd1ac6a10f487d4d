package main

import (
	"github.com/aretw0/storechat/internal/cli"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog tools",
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file",
	Long:  `Loads the catalog (default: catalog.path from the configuration) and reports every problem found.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}
		return cli.ValidateCatalog(path, cmd.OutOrStdout())
	},
}

func init() {
	catalogCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(catalogCmd)
}
