package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newBanCmd() *cobra.Command {
	var reason string
	var durationMinutes int64

	cmd := &cobra.Command{
		Use:   "ban <product-user-id>",
		Short: "Ban a player (permanent unless --minutes is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"productUserId":   args[0],
				"reason":          reason,
				"durationMinutes": durationMinutes,
			}
			if err := client.Do(http.MethodPost, "/api/ban", body, nil); err != nil {
				return err
			}
			if durationMinutes > 0 {
				fmt.Printf("banned for %d minutes\n", durationMinutes)
			} else {
				fmt.Println("banned permanently")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the ban")
	cmd.Flags().Int64Var(&durationMinutes, "minutes", 0, "Ban duration in minutes (0 = permanent)")
	return cmd
}

func newUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <product-user-id>",
		Short: "Unban a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"productUserId": args[0]}
			if err := client.Do(http.MethodPost, "/api/unban", body, nil); err != nil {
				return err
			}
			fmt.Println("unbanned")
			return nil
		},
	}
}
