package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Status string `json:"status"`
			}
			if err := client.Do(http.MethodGet, "/api/health", nil, &result); err != nil {
				return err
			}
			fmt.Println(result.Status)
			return nil
		},
	}
}
