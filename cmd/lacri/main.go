package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "lacri",
		Short: "lacri.ai Telegram bot",
		Long: `lacri.ai relays Telegram messages to hosted chat-completion APIs and
OpenWeatherMap, keeping a short per-user conversation history in memory.

Run "lacri webhook" behind a public HTTPS endpoint, or "lacri poll" to
long-poll the Bot API. Both serve /health, /ready, /live and /metrics.`,
		SilenceUsage: true,
		// Without a subcommand, follow telegram.mode from the config.
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, "")
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (default: search ./config, ., /etc/lacri/)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "webhook",
			Short: "Receive updates through the Telegram webhook",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), configPath, modeWebhook)
			},
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Receive updates by long polling getUpdates",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), configPath, modePolling)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
