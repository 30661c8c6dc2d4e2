package database

import (
	"context"
	"testing"
	"time"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/models"
	"github.com/stretchr/testify/require"
)

func TestMySQLInsertSQL(t *testing.T) {
	require.Equal(t,
		"INSERT INTO `bronze_games`.`games` (`team`, `win_ratio`, `creation_date`) VALUES (?, ?, ?)",
		mysqlInsertSQL("bronze_games", "games", []string{"team", "win_ratio", "creation_date"}))
	require.Equal(t,
		"INSERT INTO `odd``name` (`a`) VALUES (?)",
		mysqlInsertSQL("", "odd`name", []string{"a"}))
}

func TestSQLArgs(t *testing.T) {
	ts := time.Date(2022, time.January, 9, 0, 0, 0, 0, time.UTC)
	args := sqlArgs([]models.Value{models.String("NE"), models.Number("0.588"), models.Missing(), models.Timestamp(ts)})
	require.Equal(t, []any{"NE", "0.588", nil, ts}, args)
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(config.DatabaseConfig{User: "stats", Password: "p@ss", Host: "db", Port: "3306", DBName: "nfl"})
	require.Equal(t, "stats:p@ss@tcp(db:3306)/nfl?parseTime=true", dsn)
}

func TestPostgresURL(t *testing.T) {
	require.Equal(t,
		"postgres://stats:p%40ss@db:5432/nfl",
		postgresURL(config.DatabaseConfig{User: "stats", Password: "p@ss", Host: "db", Port: "5432", DBName: "nfl"}))
	require.Equal(t,
		"postgres://override/x",
		postgresURL(config.DatabaseConfig{URL: "postgres://override/x", Host: "ignored"}))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}
