// Package main is the entry point for the storebot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storebot/pkg/version"
)

const logo = "🛍️"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "storebot",
	Short: "storebot - a storefront management bot",
	Long: `storebot is a chat bot for managing a digital storefront: products,
sales, discounts, webhooks, licenses and payouts, all from a menu-driven
conversation on Telegram, the web, or the terminal.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetFullVersion())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	// Chat command flags
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "send a single message (non-interactive)")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "console:default", "session ID for conversation state")

	// Add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
