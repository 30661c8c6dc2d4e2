// backend/database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/models"
	"github.com/go-sql-driver/mysql" // MariaDB driver
)

// MySQLStore appends tables to a MySQL or MariaDB server. Schemas map to databases.
type MySQLStore struct {
	db *sql.DB
}

func mysqlDSN(cfg config.DatabaseConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Host + ":" + cfg.Port
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	return dsn.FormatDSN()
}

// OpenMySQL initializes the connection pool and verifies it with a ping.
func OpenMySQL(ctx context.Context, cfg config.DatabaseConfig) (*MySQLStore, error) {
	db, err := sql.Open("mysql", mysqlDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MySQLStore) Close() {
	if s.db != nil {
		s.db.Close()
		log.Println("Database connection closed.")
	}
}

func (s *MySQLStore) TargetColumns(ctx context.Context, schema, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, mysqlNonKeyColumnsSQL, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func (s *MySQLStore) AppendTable(ctx context.Context, schema, table string, t models.Table) (int64, error) {
	if t.NumRows() == 0 {
		log.Printf("No rows provided to append to %s.%s.\n", schema, table)
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s.%s: %w", schema, table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, mysqlInsertSQL(schema, table, t.Names()))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert statement for %s.%s: %w", schema, table, err)
	}
	defer stmt.Close()

	for i := 0; i < t.NumRows(); i++ {
		if _, err := stmt.ExecContext(ctx, sqlArgs(t.Row(i))...); err != nil {
			log.Printf("ERROR saving row %d to %s.%s: %v", i, schema, table, err)
			return 0, fmt.Errorf("failed to execute insert for row %d of %s.%s: %w", i, schema, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction for %s.%s: %w", schema, table, err)
	}

	log.Printf("Successfully appended %d rows to %s.%s\n", t.NumRows(), schema, table)
	return int64(t.NumRows()), nil
}
