// backend/ingest/reader.go
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/gewnthar/statsprep/models"
)

const (
	csvExt = ".csv"

	// UnnamedToken prefixes the label given to blank header cells.
	UnnamedToken = "Unnamed"

	// StatsYearColumn is the provenance column appended to every source table.
	StatsYearColumn = "StatsYear"
)

var statsYearRegex = regexp.MustCompile(`_(\d{4})\.csv$`)

// Discover returns the .csv files directly under dir in lexical order.
func Discover(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+csvExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list csv files in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no csv files found in %s: %w", dir, ErrNoSourceFiles)
	}
	sort.Strings(paths)
	return paths, nil
}

// CheckFormat fails with an UnsupportedFormatError unless every path is a .csv file.
// The first path is checked before the rest, so a wrong first file is
// reported even if later ones are wrong too.
func CheckFormat(paths []string) error {
	for _, p := range paths {
		if ext := filepath.Ext(p); ext != csvExt {
			return &UnsupportedFormatError{Path: p, Ext: ext}
		}
	}
	return nil
}

// StatsYearFromPath extracts the 4-digit year from a <label>_<yyyy>.csv file name.
func StatsYearFromPath(path string) (string, error) {
	m := statsYearRegex.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", &FilenameYearError{Path: path}
	}
	return m[1], nil
}

// ReadSource parses one CSV file. headerRows lists the record indices that
// make up the column labels, one level per index; records before the last
// header index that are not header rows are skipped.
func ReadSource(path string, headerRows []int) (models.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return tableFromRecords(records, headerRows, path)
}

func tableFromRecords(records [][]string, headerRows []int, path string) (models.Table, error) {
	last := headerRows[len(headerRows)-1]
	if len(records) <= last {
		return models.Table{}, fmt.Errorf("%s has %d records, header row %d is missing", path, len(records), last)
	}

	width := 0
	for _, idx := range headerRows {
		width = max(width, len(records[idx]))
	}

	headers := buildHeaders(records, headerRows, width)
	data := records[last+1:]

	columns := make([]models.Column, width)
	for i := range columns {
		columns[i] = models.Column{Header: headers[i], Values: make([]models.Value, len(data))}
	}
	for r, record := range data {
		if len(record) > width {
			return models.Table{}, fmt.Errorf("%s line %d: expected %d fields, saw %d", path, last+r+2, width, len(record))
		}
		for i := range columns {
			if i < len(record) {
				columns[i].Values[r] = models.ParseCell(record[i])
			}
		}
	}
	return models.NewTable(columns...)
}

// buildHeaders names blank header cells "Unnamed: <i>" (or
// "Unnamed: <i>_level_<l>" for multi-level headers) and suffixes repeated
// single-level labels with ".1", ".2", ... skipping suffixes already taken.
func buildHeaders(records [][]string, headerRows []int, width int) [][]string {
	multi := len(headerRows) > 1
	headers := make([][]string, width)
	for i := range headers {
		levels := make([]string, len(headerRows))
		for l, idx := range headerRows {
			cell := ""
			if i < len(records[idx]) {
				cell = records[idx][i]
			}
			if cell == "" {
				if multi {
					cell = fmt.Sprintf("%s: %d_level_%d", UnnamedToken, i, l)
				} else {
					cell = fmt.Sprintf("%s: %d", UnnamedToken, i)
				}
			}
			levels[l] = cell
		}
		headers[i] = levels
	}

	if !multi {
		counts := make(map[string]int, width)
		for _, h := range headers {
			name := h[0]
			n := counts[name]
			for n > 0 {
				counts[name] = n + 1
				name = name + "." + strconv.Itoa(n)
				n = counts[name]
			}
			h[0] = name
			counts[name] = n + 1
		}
	}
	return headers
}
