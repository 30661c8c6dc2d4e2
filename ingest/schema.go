// backend/ingest/schema.go
package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gewnthar/statsprep/models"
	"github.com/jszwec/csvutil"
)

// LoadSchema reads a target schema CSV with a column_name header (and an
// optional data_type column).
func LoadSchema(path string) ([]models.SchemaColumn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	var cols []models.SchemaColumn
	if err := csvutil.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("failed to decode schema file %s: %w", path, err)
	}
	return cols, nil
}

// SchemaNames returns the column names of a schema, skipping blanks.
func SchemaNames(cols []models.SchemaColumn) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// ManifestPath returns <dir>/<label>_manifest.csv.
func ManifestPath(dir, label string) string {
	return filepath.Join(dir, label+"_manifest.csv")
}

// Manifest lists the provenance of every source file of a run.
func Manifest(runID string, sources []models.SourceFile) []models.ManifestEntry {
	entries := make([]models.ManifestEntry, len(sources))
	for i, s := range sources {
		entries[i] = models.ManifestEntry{
			RunID:     runID,
			File:      filepath.Base(s.Path),
			StatsYear: s.StatsYear,
			Rows:      s.Rows,
			Columns:   s.Columns,
		}
	}
	return entries
}

// WriteManifest writes entries as CSV.
func WriteManifest(path string, entries []models.ManifestEntry) error {
	data, err := csvutil.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
