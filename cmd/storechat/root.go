package main

import (
	"fmt"
	"os"

	"github.com/aretw0/storechat/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storechat",
	Short: "storechat is a conversational ordering bot for small stores",
	Long: `storechat lets customers browse a product catalog, build a cart and place
orders over a messaging channel, with a natural-language fallback for questions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Configuration file (missing file means defaults)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the --config file with STORECHAT_* overrides.
func loadConfig(cmd *cobra.Command) (config.Config, bool, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return config.Config{}, false, err
	}
	return cfg, debug, nil
}
