package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/athaan-fi-beit/backend/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const DuplicateEntry = 1062

//go:embed migrations/*.sql
var migrations embed.FS

func New(cfg config.Database) (*sqlx.DB, error) {
	conf, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn failed: %w", err)
	}
	conf.Timeout = cfg.Timeout
	conf.Loc = time.UTC
	conf.ParseTime = true
	conf.MultiStatements = false

	// Connect pings and closes the pool when the ping fails.
	dbConn, err := sqlx.Connect("mysql", conf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("db connection failed: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConnections)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConnections)

	return dbConn, nil
}

// Migrate applies the embedded schema files in name order. Every statement
// is idempotent so it runs on each start.
func Migrate(ctx context.Context, dbConn *sqlx.DB) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations failed: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s failed: %w", name, err)
		}

		for _, stmt := range strings.Split(string(raw), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := dbConn.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s failed: %w", name, err)
			}
		}
	}

	return nil
}
