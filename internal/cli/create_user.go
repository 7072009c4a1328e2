package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/entities"
	"github.com/mrlokans/bookstore/internal/entrypoint"
)

func newCreateUserCommand() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		Long: `Create a user account out of band, for example the first administrator.

Examples:
  bookstore create-user --email admin@example.com --password s3cret! --role ADMIN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(app *entrypoint.App) error {
				user, err := app.Auth.CreateUser(cmd.Context(), email, password, entities.UserRole(role))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "User email (required)")
	cmd.Flags().StringVar(&password, "password", "", "User password, 6 to 72 bytes (required)")
	cmd.Flags().StringVar(&role, "role", string(entities.UserRoleUser), "User role: ADMIN or USER")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
