// backend/database/postgres.go
package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore appends tables through COPY on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// postgresURL prefers cfg.URL and otherwise builds one from the discrete fields.
func postgresURL(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	return u.String()
}

func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(postgresURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Database connection closed.")
	}
}

func (s *PostgresStore) TargetColumns(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := s.pool.Query(ctx, postgresNonKeyColumnsSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err)
	}
	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s.%s: %w", schema, table, err)
	}
	return columns, nil
}

func (s *PostgresStore) AppendTable(ctx context.Context, schema, table string, t models.Table) (int64, error) {
	if t.NumRows() == 0 {
		log.Printf("No rows provided to append to %s.%s.\n", schema, table)
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s.%s: %w", schema, table, err)
	}
	defer tx.Rollback(ctx)

	oids, err := columnTypes(ctx, tx, schema, table, t.Names())
	if err != nil {
		return 0, err
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{schema, table},
		t.Names(),
		pgx.CopyFromSlice(t.NumRows(), func(i int) ([]any, error) {
			return copyArgs(t.Row(i), oids)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s.%s: %w", schema, table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for %s.%s: %w", schema, table, err)
	}

	log.Printf("Successfully appended %d rows to %s.%s\n", n, schema, table)
	return n, nil
}

// columnTypes returns the type OID of each named column of schema.table.
func columnTypes(ctx context.Context, tx pgx.Tx, schema, table string, columns []string) ([]uint32, error) {
	rows, err := tx.Query(ctx, postgresColumnTypesSQL(schema, table, columns))
	if err != nil {
		return nil, fmt.Errorf("failed to look up column types of %s.%s: %w", schema, table, err)
	}
	fields := rows.FieldDescriptions()
	oids := make([]uint32, len(fields))
	for i, f := range fields {
		oids[i] = f.DataTypeOID
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to look up column types of %s.%s: %w", schema, table, err)
	}
	if len(oids) != len(columns) {
		return nil, fmt.Errorf("%s.%s: expected %d column types, got %d", schema, table, len(columns), len(oids))
	}
	return oids, nil
}

// copyArgs converts a row for COPY, which always sends the binary format and
// so needs Go values matching each column type.
func copyArgs(row []models.Value, oids []uint32) ([]any, error) {
	args := make([]any, len(row))
	for i, v := range row {
		arg, err := copyValue(v, oids[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		args[i] = arg
	}
	return args, nil
}

func copyValue(v models.Value, oid uint32) (any, error) {
	switch v.Kind() {
	case models.KindMissing:
		return nil, nil
	case models.KindTimestamp:
		switch oid {
		case pgtype.TextOID, pgtype.VarcharOID, pgtype.BPCharOID:
			return v.String(), nil
		}
		return v.Time(), nil
	case models.KindNumber:
		switch oid {
		case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
			if i, ok := v.Int(); ok {
				return i, nil
			}
			return nil, fmt.Errorf("%q is not a whole number", v.String())
		case pgtype.NumericOID:
			if i, ok := v.Int(); ok {
				return i, nil
			}
			fallthrough
		case pgtype.Float4OID, pgtype.Float8OID:
			if f, ok := v.Float(); ok {
				return f, nil
			}
			return nil, fmt.Errorf("%q is not a number", v.String())
		}
	}
	return v.String(), nil
}
