package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aavadhan10/ogc-dashboard/internal/adapters/sqlite"
	"github.com/aavadhan10/ogc-dashboard/internal/config"
	"github.com/aavadhan10/ogc-dashboard/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the local store's schema",
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE:  runMigrateStatus,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending schema migrations",
	RunE:  runMigrateUp,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Open runs pending migrations itself, so status reads afterwards.
	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	version, dirty, err := migrate.Status(ctx, db)
	if err != nil {
		return err
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Printf("Schema version %d (%s)\n", version, state)
	return nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	version, _, err := migrate.Status(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("Schema up to date at version %d\n", version)
	return nil
}
