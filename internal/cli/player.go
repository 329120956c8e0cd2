package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newTrackCmd() *cobra.Command {
	var username string
	var sheckles, scrap int64

	cmd := &cobra.Command{
		Use:   "track <product-user-id>",
		Short: "Send a presence heartbeat for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"productUserId": args[0],
				"username":      username,
			}
			if cmd.Flags().Changed("sheckles") {
				body["sheckles"] = sheckles
			}
			if cmd.Flags().Changed("scrap") {
				body["scrap"] = scrap
			}

			var result struct {
				Success  bool `json:"success"`
				IsBanned bool `json:"isBanned"`
			}
			if err := client.Do(http.MethodPost, "/api/players/track", body, &result); err != nil {
				return err
			}
			if result.IsBanned {
				fmt.Println("tracked; player is BANNED")
			} else {
				fmt.Println("tracked")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Display name observed for the player")
	cmd.Flags().Int64Var(&sheckles, "sheckles", 0, "Sheckles balance to record")
	cmd.Flags().Int64Var(&scrap, "scrap", 0, "Scrap balance to record")
	return cmd
}

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List all tracked players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			if err := client.Do(http.MethodGet, "/api/players", nil, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-user-id>",
		Short: "Delete a player record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"productUserId": args[0]}
			if err := client.Do(http.MethodPost, "/api/delete", body, nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
