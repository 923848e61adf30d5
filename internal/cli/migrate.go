package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/adapters/turso"
	"github.com/emiliopalmerini/pricepaid/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run prediction history migrations",
	Long: `Run prediction history database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).
The dashboard and the predict command apply pending migrations on their own.

Examples:
  pricepaid migrate      # Run all pending migrations
  pricepaid migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	latest, err := migrate.Latest()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	target := latest
	if len(args) == 1 {
		target, err = strconv.Atoi(args[0])
		if err != nil || target < 0 || target > latest {
			return fmt.Errorf("invalid version number: %s (latest is %d)", args[0], latest)
		}
	}

	db, err := turso.NewDB(ctx, cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db.DB); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	current, dirty, err := migrate.GetCurrentVersion(ctx, db.DB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", current)
	}

	fmt.Fprintf(out, "Current version: %d\n", current)
	if target == current {
		fmt.Fprintln(out, "Already at target version")
		return nil
	}

	applied, err := migrate.To(ctx, db.DB, target)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "from", current, "to", target, "count", applied)
	fmt.Fprintf(out, "Migrated to version %d (%d migrations applied)\n", target, applied)
	return nil
}
