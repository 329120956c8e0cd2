package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage store snapshots",
	}

	cmd.AddCommand(newBackupTakeCmd())
	cmd.AddCommand(newBackupListCmd())
	cmd.AddCommand(newBackupGetCmd())
	cmd.AddCommand(newBackupRestoreCmd())
	cmd.AddCommand(newBackupDeleteCmd())
	return cmd
}

func newBackupTakeCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a snapshot of the player store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{}
			if label != "" {
				body["label"] = label
			}
			var result map[string]any
			if err := client.Do(http.MethodPost, "/api/backups", body, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Label for the snapshot")
	return cmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			if err := client.Do(http.MethodGet, "/api/backups", nil, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newBackupGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <snapshot-id>",
		Short: "Fetch one snapshot including its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]any
			if err := client.Do(http.MethodGet, "/api/backups/"+args[0], nil, &result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newBackupRestoreCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "restore [snapshot-id]",
		Short: "Restore players from a stored snapshot or an export file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Success  bool `json:"success"`
				Restored int  `json:"restored"`
			}

			switch {
			case fromFile != "":
				payload, err := os.ReadFile(fromFile)
				if err != nil {
					return err
				}
				if err := client.DoRaw(http.MethodPost, "/api/backups/restore", payload, &result); err != nil {
					return err
				}
			case len(args) == 1:
				if err := client.Do(http.MethodPost, "/api/backups/"+args[0]+"/restore", nil, &result); err != nil {
					return err
				}
			default:
				return fmt.Errorf("provide a snapshot id or --file")
			}

			fmt.Printf("restored %d players\n", result.Restored)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Restore from a local export file instead of a stored snapshot")
	return cmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <snapshot-id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(http.MethodDelete, "/api/backups/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
