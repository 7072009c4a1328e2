package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/entrypoint"
)

func newPruneAuditCommand() *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:   "prune-audit",
		Short: "Delete audit events older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if retention <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			return withApp(func(app *entrypoint.App) error {
				deleted, err := app.Audit.DeleteOldEvents(cmd.Context(), retention)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d audit events\n", deleted)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&retention, "older-than", 90*24*time.Hour, "Delete events older than this duration")

	return cmd
}
