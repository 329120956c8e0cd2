package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var client *Client

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	serverURL := envOr("WARDEN_SERVER", "http://localhost:8080")
	adminSecret := os.Getenv("WARDEN_ADMIN_SECRET")

	rootCmd := &cobra.Command{
		Use:   "wardenctl",
		Short: "Admin CLI for the warden player tracking API",
		Long: `wardenctl is an admin CLI for the warden player tracking service.

It supports presence tracking, player listing, ban management, record
deletion, and backup operations over the JSON API.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = NewClient(serverURL, adminSecret)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", serverURL, "Server URL (env: WARDEN_SERVER)")
	rootCmd.PersistentFlags().StringVar(&adminSecret, "admin-secret", adminSecret, "Admin secret (env: WARDEN_ADMIN_SECRET)")

	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newBanCmd())
	rootCmd.AddCommand(newUnbanCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printJSON pretty-prints an API response
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
