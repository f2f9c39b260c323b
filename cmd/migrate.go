package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/blockpress/pkg/db"
	"github.com/rubiojr/blockpress/pkg/storage"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run document store migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "Show migration status without applying migrations",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runMigrations(stdout(c), cfg.DBPath(), c.Bool("status"))
		},
	}
}

func runMigrations(w io.Writer, dbPath string, statusOnly bool) error {
	conn, err := storage.OpenDatabase(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			cmdLog.Warnf("failed to close database: %v", err)
		}
	}()

	manager := db.NewMigrationManager(conn)
	if statusOnly {
		return showMigrationStatus(w, manager)
	}
	if err := manager.ApplyPendingMigrations(); err != nil {
		return err
	}
	fmt.Fprintln(w, "All migrations completed successfully")
	return nil
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(w io.Writer, manager *db.MigrationManager) error {
	status, err := manager.GetMigrationStatus()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Applied migrations: %d\n", len(status.Applied))
	for _, migration := range status.Applied {
		appliedTime := "unknown"
		if migration.AppliedAt != nil {
			appliedTime = migration.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "  ✓ %03d: %s (applied: %s)\n", migration.Version, migration.Name, appliedTime)
	}

	fmt.Fprintf(w, "Pending migrations: %d\n", len(status.Pending))
	for _, migration := range status.Pending {
		fmt.Fprintf(w, "  • %03d: %s\n", migration.Version, migration.Name)
	}

	if len(status.Pending) == 0 {
		fmt.Fprintln(w, "  (none - database is up to date)")
	}

	return nil
}
