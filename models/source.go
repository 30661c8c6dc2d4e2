// backend/models/source.go
package models

// SourceFile is one delimited input file and the year parsed from its name.
type SourceFile struct {
	Path      string
	StatsYear string
	// Shape of the parsed file, StatsYear included.
	Rows    int
	Columns int
}

// ColumnNameMap maps original column labels to cleaned ones, in column order.
type ColumnNameMap struct {
	Original []string
	Cleaned  []string
}

// Lookup returns the cleaned name of the first column labelled original.
func (m ColumnNameMap) Lookup(original string) (string, bool) {
	for i, o := range m.Original {
		if o == original {
			return m.Cleaned[i], true
		}
	}
	return "", false
}

func (m ColumnNameMap) Len() int { return len(m.Original) }

// SchemaColumn is one row of a target-schema CSV.
type SchemaColumn struct {
	Name     string `csv:"column_name"`
	DataType string `csv:"data_type,omitempty"`
}

// ManifestEntry records the provenance of one source file in an ingestion run.
type ManifestEntry struct {
	RunID     string `csv:"run_id"`
	File      string `csv:"file"`
	StatsYear string `csv:"stats_year"`
	Rows      int    `csv:"rows"`
	Columns   int    `csv:"columns"`
}
