// backend/ingest/writer.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gewnthar/statsprep/models"
)

// OutputPath returns <dir>/<label>_processed.csv.
func OutputPath(dir, label string) string {
	return filepath.Join(dir, label+"_processed.csv")
}

// WriteCSV writes t with a header row of column names and no index column.
// The file is written next to path and renamed into place, so a failed
// write leaves no partial output behind.
func WriteCSV(path string, t models.Table) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	record := make([]string, t.NumCols())
	for r := 0; r < t.NumRows(); r++ {
		for i, v := range t.Row(r) {
			record[i] = v.String()
		}
		if err = w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d to %s: %w", r, path, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move output into %s: %w", path, err)
	}
	return nil
}
