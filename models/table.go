// backend/models/table.go
package models

import (
	"fmt"
	"strings"
)

// Column is a named sequence of cells. Header holds one label per header row
// of the source file; after header flattening it has exactly one entry.
type Column struct {
	Header []string
	Values []Value
}

// NewColumn builds a single-level column.
func NewColumn(name string, values []Value) Column {
	return Column{Header: []string{name}, Values: values}
}

// Name returns the column label. Multi-level labels are joined with "_".
func (c Column) Name() string {
	if len(c.Header) == 1 {
		return c.Header[0]
	}
	return strings.Join(c.Header, "_")
}

// Repeat returns n copies of v.
func Repeat(v Value, n int) []Value {
	values := make([]Value, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// Table is an ordered set of equally long columns. Methods never modify the
// receiver; they return a new Table that may share unchanged column storage.
type Table struct {
	columns []Column
	rows    int
}

// NewTable checks that all columns have the same length.
func NewTable(columns ...Column) (Table, error) {
	t := Table{}
	for _, c := range columns {
		next, err := t.WithColumn(c)
		if err != nil {
			return Table{}, err
		}
		t = next
	}
	return t, nil
}

func (t Table) NumRows() int { return t.rows }
func (t Table) NumCols() int { return len(t.columns) }

// Shape renders "(rows, cols)" for log lines.
func (t Table) Shape() string {
	return fmt.Sprintf("(%d, %d)", t.rows, len(t.columns))
}

// Names returns the column labels in order.
func (t Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Columns returns a copy of the column list.
func (t Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t Table) Column(i int) Column { return t.columns[i] }

// Index returns the position of the first column called name, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.columns {
		if c.Name() == name {
			return i
		}
	}
	return -1
}

func (t Table) Has(name string) bool { return t.Index(name) >= 0 }

// Row returns the cells of row i across all columns.
func (t Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}

// WithColumn appends c. The first column of an empty table fixes the row count.
func (t Table) WithColumn(c Column) (Table, error) {
	if len(t.columns) > 0 && len(c.Values) != t.rows {
		return Table{}, fmt.Errorf("column %q has %d values, table has %d rows", c.Name(), len(c.Values), t.rows)
	}
	columns := make([]Column, len(t.columns), len(t.columns)+1)
	copy(columns, t.columns)
	return Table{columns: append(columns, c), rows: len(c.Values)}, nil
}

// Replace swaps the column at position i for c.
func (t Table) Replace(i int, c Column) (Table, error) {
	if len(c.Values) != t.rows {
		return Table{}, fmt.Errorf("column %q has %d values, table has %d rows", c.Name(), len(c.Values), t.rows)
	}
	columns := make([]Column, len(t.columns))
	copy(columns, t.columns)
	columns[i] = c
	return Table{columns: columns, rows: t.rows}, nil
}

// Without drops every column for which drop returns true.
func (t Table) Without(drop func(Column) bool) Table {
	kept := make([]Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop(c) {
			kept = append(kept, c)
		}
	}
	rows := t.rows
	if len(kept) == 0 {
		rows = 0
	}
	return Table{columns: kept, rows: rows}
}

// Renamed replaces every label positionally with a single-level name.
func (t Table) Renamed(names []string) (Table, error) {
	if len(names) != len(t.columns) {
		return Table{}, fmt.Errorf("rename: got %d names for %d columns", len(names), len(t.columns))
	}
	columns := make([]Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = Column{Header: []string{names[i]}, Values: c.Values}
	}
	return Table{columns: columns, rows: t.rows}, nil
}
