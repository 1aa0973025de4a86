package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/stock-reports/pkg/models/domain"

	_ "modernc.org/sqlite"
)

const DriverName = "sqlite"

const ReportsTableSchema = `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT NOT NULL UNIQUE,
		stock TEXT NOT NULL,
		start TEXT NOT NULL,
		"end" TEXT NOT NULL,
		data TEXT NOT NULL,
		modified_at INTEGER NOT NULL
	);
`

var pragmas = []string{
	`PRAGMA busy_timeout = 5000;`,
}

var bootQueries = []string{
	ReportsTableSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the database once and boots the schema. The pool holds a single
// connection: SQLite serializes writers anyway, and ":memory:" databases live
// and die with their connection.
func NewDB(ctx context.Context, settings Settings) (*sql.DB, error) {
	if settings.DbPath == "" {
		return nil, fmt.Errorf("%w: database path is empty", domain.ErrStore)
	}

	db, err := sql.Open(DriverName, settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStore, settings.DbPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	queries := append(append([]string{}, pragmas...), bootQueries...)
	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: boot %s: %v", domain.ErrStore, settings.DbPath, err)
		}
	}

	return db, nil
}
