package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/entrypoint"
	"github.com/mrlokans/bookstore/internal/logging"
)

// NewRootCommand builds the bookstore command tree. Running it without a
// sub-command starts the HTTP server.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "bookstore",
		Short: "Bookstore administration backend",
		Long: `Bookstore serves a REST API for managing book categories, books and users.

Configuration is read from environment variables (PORT, DB_DRIVER, JWT_SECRET, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(config.NewConfig(), version)
		},
	}

	root.AddCommand(
		newServeCommand(version),
		newSeedCommand(),
		newCreateUserCommand(),
		newPruneAuditCommand(),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp opens the application against the configured database for a
// one-shot command and closes it afterwards.
func withApp(fn func(app *entrypoint.App) error) error {
	cfg := config.NewConfig()
	log := logging.New(cfg.Log)

	app, err := entrypoint.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(app)
}
