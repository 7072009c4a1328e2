package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/entrypoint"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty database",
		Long: `Insert Fiction, Technology and History when no category exists yet.

Running the command again is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(app *entrypoint.App) error {
				inserted, err := app.Seed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d categories\n", inserted)
				return nil
			})
		},
	}
}
