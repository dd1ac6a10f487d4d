package main

import (
	"github.com/aretw0/storechat"
	"github.com/aretw0/storechat/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Receives messages from the gateway webhook and answers through the gateway API. Exposes /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, debug, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		if cmd.Flags().Changed("watch") {
			cfg.Catalog.Watch, _ = cmd.Flags().GetBool("watch")
		}
		return cli.Serve(cli.ServeOptions{Config: cfg, Debug: debug, Version: storechat.Version})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.addr)")
	serveCmd.Flags().Bool("watch", false, "Reload the catalog when the file changes")
}
