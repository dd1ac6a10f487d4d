package main

import (
	"github.com/aretw0/storechat"
	"github.com/aretw0/storechat/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long:  `Runs a local conversation on stdin/stdout. Lists are shown as numbered options. Type :q to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, debug, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		user, _ := cmd.Flags().GetString("user")
		plain, _ := cmd.Flags().GetBool("plain")
		return cli.Chat(cli.ChatOptions{
			Config:  cfg,
			Debug:   debug,
			Version: storechat.Version,
			UserID:  user,
			Plain:   plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("user", "local", "Customer id used for the session")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering")
}
