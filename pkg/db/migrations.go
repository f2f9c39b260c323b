package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/blockpress/pkg/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var logger = log.ForService("storage")

// Migration represents a database migration
type Migration struct {
	Version   int
	Name      string
	SQL       string
	AppliedAt *time.Time
}

// MigrationManager handles database migrations
type MigrationManager struct {
	db     *sql.DB
	source fs.FS
}

// NewMigrationManager creates a new migration manager using embedded migrations
func NewMigrationManager(db *sql.DB) *MigrationManager {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	return &MigrationManager{db: db, source: sub}
}

// NewMigrationManagerFromPath creates a migration manager that loads migrations from a directory.
// Tests use it to exercise custom migration scenarios.
func NewMigrationManagerFromPath(db *sql.DB, migrationsPath string) *MigrationManager {
	return &MigrationManager{db: db, source: os.DirFS(migrationsPath)}
}

// EnsureMigrationsTable creates the migrations table if it doesn't exist
func (m *MigrationManager) EnsureMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	return err
}

// GetAppliedMigrations returns a list of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]time.Time, error) {
	applied := make(map[int]time.Time)

	rows, err := m.db.Query("SELECT version, applied_at FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("scanning migration row: %w", err)
		}
		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// GetAvailableMigrations returns all available migrations sorted by version
func (m *MigrationManager) GetAvailableMigrations() ([]Migration, error) {
	return readMigrations(m.source)
}

func readMigrations(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		// "001_documents.sql" -> 1, "documents"
		parts := strings.SplitN(entry.Name(), "_", 2)
		if len(parts) != 2 {
			continue
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		content, err := fs.ReadFile(source, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading migration file %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// GetPendingMigrations returns migrations that haven't been applied yet
func (m *MigrationManager) GetPendingMigrations() ([]Migration, error) {
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}

	available, err := m.GetAvailableMigrations()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range available {
		if _, exists := applied[migration.Version]; !exists {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback migration transaction: %v", err)
			}
		}
	}()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("executing migration %d: %w", migration.Version, err)
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", migration.Version); err != nil {
		return fmt.Errorf("recording migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", migration.Version, err)
	}

	committed = true
	return nil
}

// ApplyPendingMigrations applies all pending migrations
func (m *MigrationManager) ApplyPendingMigrations() error {
	if err := m.EnsureMigrationsTable(); err != nil {
		return fmt.Errorf("ensuring migrations table: %w", err)
	}

	pending, err := m.GetPendingMigrations()
	if err != nil {
		return fmt.Errorf("getting pending migrations: %w", err)
	}

	for _, migration := range pending {
		logger.Debugf("applying migration %d: %s", migration.Version, migration.Name)
		if err := m.ApplyMigration(migration); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}
	if len(pending) > 0 {
		logger.Infof("applied %d migrations", len(pending))
	}
	return nil
}

// GetMigrationStatus returns the current migration status
func (m *MigrationManager) GetMigrationStatus() (*MigrationStatus, error) {
	if err := m.EnsureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("ensuring migrations table: %w", err)
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}

	available, err := m.GetAvailableMigrations()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{
		Applied:   make([]Migration, 0, len(applied)),
		Available: available,
	}
	for _, migration := range available {
		if appliedAt, exists := applied[migration.Version]; exists {
			migration.AppliedAt = &appliedAt
			status.Applied = append(status.Applied, migration)
		} else {
			status.Pending = append(status.Pending, migration)
		}
	}
	return status, nil
}

// MigrationStatus represents the current state of migrations
type MigrationStatus struct {
	Applied   []Migration
	Pending   []Migration
	Available []Migration
}

// InitializeDatabase brings db up to the current schema
func InitializeDatabase(db *sql.DB) error {
	if err := NewMigrationManager(db).ApplyPendingMigrations(); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// InitializeDatabaseFromPath initializes a database using migrations from a directory
func InitializeDatabaseFromPath(db *sql.DB, migrationsPath string) error {
	if err := NewMigrationManagerFromPath(db, migrationsPath).ApplyPendingMigrations(); err != nil {
		return fmt.Errorf("applying migrations from %s: %w", migrationsPath, err)
	}
	return nil
}

// GetEmbeddedMigrations returns the embedded migration set without needing a
// database handle.
func GetEmbeddedMigrations() ([]Migration, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return readMigrations(sub)
}
