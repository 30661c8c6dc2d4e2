// backend/ingest/transform.go
package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gewnthar/statsprep/models"
)

// CreationDateColumn holds the ingestion timestamp of every row.
const CreationDateColumn = "creation_date"

// CollisionPolicy decides what happens when two columns normalize to the same name.
type CollisionPolicy string

const (
	CollisionError  CollisionPolicy = "error"
	CollisionSuffix CollisionPolicy = "suffix"
	CollisionAllow  CollisionPolicy = "allow" // keeps duplicate labels as they are
)

// ParseCollisionPolicy accepts "error", "suffix", "allow" or "" (error).
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CollisionError:
		return CollisionError, nil
	case CollisionSuffix:
		return CollisionSuffix, nil
	case CollisionAllow:
		return CollisionAllow, nil
	default:
		return "", fmt.Errorf("unknown collision policy %q, use %q, %q or %q", s, CollisionError, CollisionSuffix, CollisionAllow)
	}
}

// Applied in order, each to the result of the previous one.
var columnSubstitutions = [][2]string{
	{"/", "_or_"},
	{" ", "_"},
	{"(", ""},
	{")", ""},
	{"%", "_ratio"},
	{"-", "_minus_"},
	{"+", "_plus_"},
	{".", "_"},
	{":", ""},
	{"'", ""},
	{"&", "_and_"},
}

var underscoreRuns = regexp.MustCompile(`__+`)

// NormalizeColumnName turns a raw label into a storage-safe column name.
func NormalizeColumnName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, sub := range columnSubstitutions {
		s = strings.ReplaceAll(s, sub[0], sub[1])
	}
	return underscoreRuns.ReplaceAllString(s, "_")
}

// WithStatsYear appends the StatsYear column holding year on every row.
func WithStatsYear(t models.Table, year string) (models.Table, error) {
	return t.WithColumn(models.NewColumn(StatsYearColumn, models.Repeat(models.String(year), t.NumRows())))
}

// FlattenHeaders joins multi-level labels with "_". When the outer level is
// an Unnamed placeholder only the inner levels are kept.
func FlattenHeaders(t models.Table) (models.Table, error) {
	names := make([]string, t.NumCols())
	for i, c := range t.Columns() {
		switch {
		case len(c.Header) < 2:
			names[i] = c.Name()
		case strings.HasPrefix(c.Header[0], UnnamedToken):
			names[i] = strings.Join(c.Header[1:], "_")
		default:
			names[i] = strings.Join(c.Header, "_")
		}
	}
	return t.Renamed(names)
}

type columnKey struct {
	name string
	nth  int
}

// Concat stacks tables top to bottom. The result has the union of all
// columns in first-seen order; cells a table lacks are filled with the
// missing-value marker.
func Concat(tables ...models.Table) (models.Table, error) {
	var order []columnKey
	headers := make(map[columnKey][]string)
	positions := make([]map[columnKey]int, len(tables))

	for ti, t := range tables {
		positions[ti] = make(map[columnKey]int, t.NumCols())
		seen := make(map[string]int, t.NumCols())
		for ci, c := range t.Columns() {
			key := columnKey{name: c.Name(), nth: seen[c.Name()]}
			seen[c.Name()]++
			positions[ti][key] = ci
			if _, ok := headers[key]; !ok {
				headers[key] = c.Header
				order = append(order, key)
			}
		}
	}

	total := 0
	for _, t := range tables {
		total += t.NumRows()
	}

	columns := make([]models.Column, len(order))
	for i, key := range order {
		values := make([]models.Value, 0, total)
		for ti, t := range tables {
			if ci, ok := positions[ti][key]; ok {
				values = append(values, t.Column(ci).Values...)
			} else {
				values = append(values, models.Repeat(models.Missing(), t.NumRows())...)
			}
		}
		columns[i] = models.Column{Header: headers[key], Values: values}
	}
	return models.NewTable(columns...)
}

// DropUnnamed removes placeholder columns and returns their labels.
func DropUnnamed(t models.Table) (models.Table, []string) {
	var dropped []string
	out := t.Without(func(c models.Column) bool {
		if strings.Contains(c.Name(), UnnamedToken) {
			dropped = append(dropped, c.Name())
			return true
		}
		return false
	})
	return out, dropped
}

// BuildColumnNameMap computes the cleaned name of every column without renaming anything.
func BuildColumnNameMap(t models.Table) models.ColumnNameMap {
	m := models.ColumnNameMap{Original: t.Names()}
	m.Cleaned = make([]string, len(m.Original))
	for i, name := range m.Original {
		m.Cleaned[i] = NormalizeColumnName(name)
	}
	return m
}

// ApplyColumnNameMap renames the columns of t. The map must have been built
// from a table with the same columns.
func ApplyColumnNameMap(t models.Table, m models.ColumnNameMap, policy CollisionPolicy) (models.Table, error) {
	names := t.Names()
	if m.Len() != len(names) {
		return models.Table{}, fmt.Errorf("column name map has %d entries, table has %d columns", m.Len(), len(names))
	}
	for i, name := range names {
		if m.Original[i] != name {
			return models.Table{}, fmt.Errorf("column name map entry %d is for %q, table column is %q", i, m.Original[i], name)
		}
	}

	cleaned, err := resolveCollisions(m, policy)
	if err != nil {
		return models.Table{}, err
	}
	return t.Renamed(cleaned)
}

func resolveCollisions(m models.ColumnNameMap, policy CollisionPolicy) ([]string, error) {
	if policy == CollisionAllow {
		return m.Cleaned, nil
	}
	owners := make(map[string][]string, m.Len())
	for i, name := range m.Cleaned {
		owners[name] = append(owners[name], m.Original[i])
	}

	if policy != CollisionSuffix {
		for _, name := range m.Cleaned {
			if len(owners[name]) > 1 {
				return nil, &ColumnCollisionError{Name: name, Originals: owners[name]}
			}
		}
		return m.Cleaned, nil
	}

	used := make(map[string]bool, m.Len())
	for _, name := range m.Cleaned {
		used[name] = true
	}
	out := make([]string, m.Len())
	taken := make(map[string]bool, m.Len())
	for i, name := range m.Cleaned {
		if !taken[name] {
			out[i] = name
			taken[name] = true
			continue
		}
		for n := 2; ; n++ {
			candidate := name + "_" + strconv.Itoa(n)
			if !taken[candidate] && !used[candidate] {
				out[i] = candidate
				taken[candidate] = true
				break
			}
		}
	}
	return out, nil
}

// AddCreationDate sets creation_date to ts on every row, replacing an
// existing creation_date column in place.
func AddCreationDate(t models.Table, ts time.Time) (models.Table, error) {
	col := models.NewColumn(CreationDateColumn, models.Repeat(models.Timestamp(ts), t.NumRows()))
	if i := t.Index(CreationDateColumn); i >= 0 {
		return t.Replace(i, col)
	}
	return t.WithColumn(col)
}

// EnsureColumns adds every absent name as a column of missing values.
func EnsureColumns(t models.Table, names ...string) (models.Table, error) {
	for _, name := range names {
		if t.Has(name) {
			continue
		}
		next, err := t.WithColumn(models.NewColumn(name, models.Repeat(models.Missing(), t.NumRows())))
		if err != nil {
			return models.Table{}, err
		}
		t = next
	}
	return t, nil
}
