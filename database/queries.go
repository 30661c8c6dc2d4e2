// backend/database/queries.go
package database

import (
	"strings"

	"github.com/gewnthar/statsprep/models"
	"github.com/jackc/pgx/v5"
)

const mysqlNonKeyColumnsSQL = `
	SELECT COLUMN_NAME
	FROM information_schema.COLUMNS
	WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		AND COLUMN_KEY <> 'PRI'
	ORDER BY ORDINAL_POSITION
`

const postgresNonKeyColumnsSQL = `
	WITH primary_keys AS (
		SELECT a.attname AS column_name
		FROM pg_index i
			JOIN pg_class c ON c.oid = i.indrelid
			JOIN pg_namespace n ON n.oid = c.relnamespace
			JOIN pg_attribute a ON a.attrelid = i.indrelid
				AND a.attnum = ANY (i.indkey)
		WHERE n.nspname = $1
			AND c.relname = $2
			AND i.indisprimary
	)
	SELECT column_name::text
	FROM information_schema.columns
	WHERE table_schema = $1
		AND table_name = $2
		AND column_name NOT IN (SELECT column_name FROM primary_keys)
	ORDER BY ordinal_position
`

func quoteMySQL(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func mysqlInsertSQL(schema, table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteMySQL(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	if schema != "" {
		b.WriteString(quoteMySQL(schema))
		b.WriteString(".")
	}
	b.WriteString(quoteMySQL(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(placeholders)
	b.WriteString(")")
	return b.String()
}

// sqlArgs converts a row to driver arguments; missing cells become NULL.
func sqlArgs(row []models.Value) []any {
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v.SQLValue()
	}
	return args
}

// postgresColumnTypesSQL selects no rows; its field descriptions carry the
// type of every listed column of the target table.
func postgresColumnTypesSQL(schema, table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return "SELECT " + strings.Join(quoted, ", ") + " FROM " + pgx.Identifier{schema, table}.Sanitize() + " LIMIT 0"
}
