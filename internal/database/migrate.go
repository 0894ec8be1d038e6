package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"quiz-trail/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

const createMigrationTableQuery = `CREATE TABLE schema_migrations (
    version VARCHAR2(255) PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT SYSTIMESTAMP NOT NULL
)`

// RunMigrations brings the schema up to date for the given driver.
func RunMigrations(ctx context.Context, db *sqlx.DB, driver string) error {
	switch driver {
	case DriverSQLite:
		return migrateSQLite(db.DB)
	case DriverOracle:
		return migrateOracle(ctx, db)
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
}

// RollbackMigrations reverts every applied migration.
func RollbackMigrations(ctx context.Context, db *sqlx.DB, driver string) error {
	switch driver {
	case DriverSQLite:
		m, err := newSQLiteMigrator(db.DB)
		if err != nil {
			return err
		}
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("could not roll back sqlite migrations: %w", err)
		}
		return nil
	case DriverOracle:
		return rollbackOracle(ctx, db)
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}
}

func newSQLiteMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return nil, fmt.Errorf("could not load sqlite migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

// migrateSQLite leaves the *sql.DB open; migrate.Close would close it.
func migrateSQLite(db *sql.DB) error {
	m, err := newSQLiteMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not apply sqlite migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", err)
	}
	logger.Get().Info("Migrations completed", zap.String("driver", DriverSQLite),
		zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// migrateOracle runs each pending *.up.sql file statement by statement and
// records its name in schema_migrations. go-ora executes one statement per call.
func migrateOracle(ctx context.Context, db *sqlx.DB) error {
	log := logger.Get()

	var exists int
	if err := db.GetContext(ctx, &exists,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`); err != nil {
		return fmt.Errorf("could not check migration table: %w", err)
	}
	if exists == 0 {
		if _, err := db.ExecContext(ctx, createMigrationTableQuery); err != nil {
			return fmt.Errorf("could not create migration table: %w", err)
		}
	}

	files, err := upMigrations(migrationsFS, "migrations/oracle")
	if err != nil {
		return err
	}

	for _, name := range files {
		var applied int
		if err := db.GetContext(ctx, &applied,
			db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`), name); err != nil {
			return fmt.Errorf("could not check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, "migrations/oracle/"+name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), name); err != nil {
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}
		log.Info("Executed migration", zap.String("file", name))
	}

	log.Info("Migrations completed", zap.String("driver", DriverOracle))
	return nil
}

func rollbackOracle(ctx context.Context, db *sqlx.DB) error {
	var applied []string
	if err := db.SelectContext(ctx, &applied,
		`SELECT version FROM schema_migrations ORDER BY version DESC`); err != nil {
		return fmt.Errorf("could not list applied migrations: %w", err)
	}
	for _, name := range applied {
		down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		content, err := fs.ReadFile(migrationsFS, "migrations/oracle/"+down)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", down, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", down, err)
			}
		}
		if _, err := db.ExecContext(ctx,
			db.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), name); err != nil {
			return fmt.Errorf("could not unrecord migration %s: %w", name, err)
		}
		logger.Get().Info("Rolled back migration", zap.String("file", down))
	}
	return nil
}

func upMigrations(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// splitStatements breaks a script on semicolons and drops blank and
// comment-only chunks. The trailing semicolon is removed.
func splitStatements(script string) []string {
	var out []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, strings.TrimRight(line, " \t\r"))
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}
