package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-content-lifecycle/internal/history"
	"github.com/goliatone/go-content-lifecycle/internal/lifecycle"
	"github.com/goliatone/go-content-lifecycle/internal/versioning"
)

// NewBunSQLiteDB opens an in-memory SQLite database wrapped in bun. The
// connection pool is capped at a single connection so the shared-cache
// in-memory database survives for the whole test.
func NewBunSQLiteDB() (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("testsupport: open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateLifecycleTables provisions the schema for every bun-backed
// repository in the module.
func CreateLifecycleTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*versioning.ContentVersion)(nil),
		(*versioning.VersionBranch)(nil),
		(*lifecycle.ContentLifecycleState)(nil),
		(*history.Transition)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("testsupport: create table for %T: %w", model, err)
		}
	}
	return nil
}
