package database

import (
	"context"
	"fmt"
	"strings"

	"quiz-trail/internal/config"
	"quiz-trail/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	DriverOracle = "oracle"
	DriverSQLite = "sqlite"
)

func init() {
	// go-ora takes positional :1, :2 ... placeholders; sqlx does not know the driver name.
	sqlx.BindDriver(DriverOracle, sqlx.NAMED)
}

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	dsn := cfg.GetDSN()
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	configure(db, driver)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}

func configure(db *sqlx.DB, driver string) {
	switch driver {
	case DriverOracle:
		// Oracle reports unquoted identifiers in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	case DriverSQLite:
		// A single connection keeps ":memory:" databases shared and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by
// default, and makes the driver write times in SQLite's own text layout so
// computed columns such as MAX(answered_at) sort and parse consistently.
func sqliteDSN(dsn string) string {
	var params []string
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
