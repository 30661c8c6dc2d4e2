// backend/database/store.go
package database

import (
	"context"
	"fmt"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/models"
)

// Store is a warehouse that processed tables are appended to.
type Store interface {
	// TargetColumns lists the non primary key columns of schema.table in
	// ordinal order. A missing table yields no columns.
	TargetColumns(ctx context.Context, schema, table string) ([]string, error)
	// AppendTable inserts every row of t in a single transaction.
	AppendTable(ctx context.Context, schema, table string, t models.Table) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "mysql", "":
		store, err := OpenMySQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
