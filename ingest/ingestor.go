// backend/ingest/ingestor.go
package ingest

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/statsprep/models"
	"github.com/gewnthar/statsprep/timezone"
)

// State is the lifecycle position of an Ingestor.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateMerged
	StateCleaned
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateLoaded:
		return "Loaded"
	case StateMerged:
		return "Merged"
	case StateCleaned:
		return "Cleaned"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options configures an Ingestor. Zero values get defaults in New.
type Options struct {
	// Target namespaces the output, e.g. "games".
	Target string
	// Storage names the downstream table.
	Storage string
	// HeaderRows lists the header record indices, default [0].
	HeaderRows []int
	// Location fixes the zone of creation_date, default Europe/London.
	Location *time.Location
	// Now is the clock, default time.Now.
	Now             func() time.Time
	CollisionPolicy CollisionPolicy
	// RunID tags log lines of one run.
	RunID string
}

// Ingestor reads a set of CSV files into one cleaned table. It sequences the
// pure stage functions of this package and keeps only the latest table value.
// An Ingestor is not safe for concurrent use.
type Ingestor struct {
	opts    Options
	paths   []string
	sources []models.SourceFile
	state   State
	table   models.Table
	names   models.ColumnNameMap
	created time.Time
}

// New validates the inputs and returns an Ingestor in the Empty state.
func New(paths []string, opts Options) (*Ingestor, error) {
	if len(paths) == 0 {
		return nil, errors.New("ingest: at least one source file is required")
	}
	if len(opts.HeaderRows) == 0 {
		opts.HeaderRows = []int{0}
	}
	for i, r := range opts.HeaderRows {
		if r < 0 || (i > 0 && r <= opts.HeaderRows[i-1]) {
			return nil, fmt.Errorf("ingest: header rows must be increasing and non-negative, got %v", opts.HeaderRows)
		}
	}
	if opts.Location == nil {
		opts.Location = timezone.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CollisionPolicy == "" {
		opts.CollisionPolicy = CollisionError
	}
	return &Ingestor{
		opts:  opts,
		paths: append([]string(nil), paths...),
	}, nil
}

// Schema is the downstream landing schema for this target.
func (ing *Ingestor) Schema() string {
	return "bronze_" + ing.opts.Target
}

func (ing *Ingestor) Target() string  { return ing.opts.Target }
func (ing *Ingestor) Storage() string { return ing.opts.Storage }
func (ing *Ingestor) State() State    { return ing.state }

// Sources returns the parsed source files; empty before LoadAndMerge.
func (ing *Ingestor) Sources() []models.SourceFile {
	return append([]models.SourceFile(nil), ing.sources...)
}

// CreatedAt is the creation_date stamped by AddCreationDate.
func (ing *Ingestor) CreatedAt() time.Time { return ing.created }

// Table returns the current table.
func (ing *Ingestor) Table() (models.Table, error) {
	if err := ing.require("Table", StateLoaded); err != nil {
		return models.Table{}, err
	}
	return ing.table, nil
}

func (ing *Ingestor) require(op string, need State) error {
	if ing.state < need {
		return &PreconditionError{Op: op, State: ing.state, Need: need}
	}
	return nil
}

func (ing *Ingestor) logf(format string, args ...any) {
	prefix := "Ingestor"
	if ing.opts.RunID != "" {
		prefix = fmt.Sprintf("Ingestor [%s]", ing.opts.RunID)
	}
	log.Printf(prefix+": "+format, args...)
}

// LoadAndMerge parses every source file, tags its rows with StatsYear,
// concatenates them, flattens multi-level headers and drops Unnamed columns.
// Nothing is kept when any file fails.
func (ing *Ingestor) LoadAndMerge() error {
	if err := CheckFormat(ing.paths); err != nil {
		log.Printf("ERROR Ingestor: %v", err)
		return err
	}

	sources := make([]models.SourceFile, 0, len(ing.paths))
	tables := make([]models.Table, 0, len(ing.paths))
	for _, p := range ing.paths {
		year, err := StatsYearFromPath(p)
		if err != nil {
			return err
		}
		t, err := ReadSource(p, ing.opts.HeaderRows)
		if err != nil {
			return err
		}
		if len(ing.opts.HeaderRows) > 1 {
			if t, err = FlattenHeaders(t); err != nil {
				return fmt.Errorf("failed to flatten headers of %s: %w", p, err)
			}
		}
		if t, err = WithStatsYear(t, year); err != nil {
			return fmt.Errorf("failed to tag %s with its year: %w", p, err)
		}
		sources = append(sources, models.SourceFile{Path: p, StatsYear: year, Rows: t.NumRows(), Columns: t.NumCols()})
		tables = append(tables, t)
	}

	merged, err := Concat(tables...)
	if err != nil {
		return fmt.Errorf("failed to concatenate %d source tables: %w", len(tables), err)
	}
	ing.sources = sources
	ing.table = merged
	ing.state = StateLoaded
	ing.logf("The data is in a table of shape %s.", merged.Shape())

	cleaned, dropped := DropUnnamed(merged)
	if len(dropped) > 0 {
		ing.logf("This dataset contains %d Unnamed column(s) to be removed: %v", len(dropped), dropped)
		ing.logf("The new shape is %s.", cleaned.Shape())
	}
	ing.table = cleaned
	ing.state = StateMerged
	return nil
}

// NormalizeColumnNames returns the cleaned name of every current column.
// The table itself is not renamed.
func (ing *Ingestor) NormalizeColumnNames() (models.ColumnNameMap, error) {
	if err := ing.require("NormalizeColumnNames", StateMerged); err != nil {
		return models.ColumnNameMap{}, err
	}
	ing.names = BuildColumnNameMap(ing.table)
	return ing.names, nil
}

// ApplyColumnNames renames the columns using m.
func (ing *Ingestor) ApplyColumnNames(m models.ColumnNameMap) error {
	if err := ing.require("ApplyColumnNames", StateMerged); err != nil {
		return err
	}
	renamed, err := ApplyColumnNameMap(ing.table, m, ing.opts.CollisionPolicy)
	if err != nil {
		return err
	}
	ing.table = renamed
	ing.state = StateCleaned
	ing.logf("Prepared the column names for the database.")
	return nil
}

// AddCreationDate stamps every row with one timestamp taken now.
func (ing *Ingestor) AddCreationDate() error {
	if err := ing.require("AddCreationDate", StateMerged); err != nil {
		return err
	}
	ts := ing.opts.Now().In(ing.opts.Location)
	stamped, err := AddCreationDate(ing.table, ts)
	if err != nil {
		return err
	}
	ing.table = stamped
	ing.created = ts
	ing.logf("Creation date of this table is %s", ts.Format(models.TimestampLayout))
	return nil
}

// EnsureColumns adds each absent name as a column of missing values.
func (ing *Ingestor) EnsureColumns(names ...string) error {
	if err := ing.require("EnsureColumns", StateLoaded); err != nil {
		return err
	}
	next, err := EnsureColumns(ing.table, names...)
	if err != nil {
		return err
	}
	if added := next.NumCols() - ing.table.NumCols(); added > 0 {
		ing.logf("Added %d missing column(s) filled with NULL.", added)
	}
	ing.table = next
	return nil
}

// Preprocess runs LoadAndMerge, normalizes and applies the column names and
// stamps creation_date.
func (ing *Ingestor) Preprocess() (*Ingestor, error) {
	if err := ing.LoadAndMerge(); err != nil {
		return ing, err
	}
	m, err := ing.NormalizeColumnNames()
	if err != nil {
		return ing, err
	}
	if err := ing.ApplyColumnNames(m); err != nil {
		return ing, err
	}
	if err := ing.AddCreationDate(); err != nil {
		return ing, err
	}
	return ing, nil
}
