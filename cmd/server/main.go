// @title           OmniChat API
// @version         1.0
// @description     Multi-provider AI chat backend with per-session conversation state.
// @host            localhost:8000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"omnichat/backend/internal/app"
	"omnichat/backend/internal/config"
	"omnichat/backend/internal/database"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "omnichat",
		Short:         "OmniChat backend server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	flags := root.PersistentFlags()
	flags.Int("port", 8000, "HTTP listen port")
	flags.String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("db", "/data/omnichat.db", "path to the SQLite database")
	_ = viper.BindPFlag("APP_PORT", flags.Lookup("port"))
	_ = viper.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = viper.BindPFlag("DATABASE_PATH", flags.Lookup("db"))

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  runServe,
	}, newMigrateCmd())
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, cfg)
	stop()
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDB(database.Migrate)
		},
	}, &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q: %w", args[0], err)
				}
				steps = n
			}
			return withDB(func(db *sql.DB) error {
				return database.Rollback(db, steps)
			})
		},
	}, &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(db *sql.DB) error {
				version, dirty, err := database.Version(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

// withDB opens the configured database without migrating it and runs fn.
func withDB(fn func(db *sql.DB) error) error {
	viper.AutomaticEnv()
	app.SetupLogger(viper.GetString("LOG_LEVEL"))
	path := viper.GetString("DATABASE_PATH")
	db, err := database.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}
