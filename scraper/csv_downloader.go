// backend/scraper/csv_downloader.go
package scraper

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Request describes one scrape target over a range of seasons.
type Request struct {
	Target      string
	Dir         string
	Years       []int
	URLTemplate string
	TableID     string
	TeamName    string
}

// WriteCSV writes rows to localSavePath, creating the directory if needed.
func WriteCSV(localSavePath string, rows [][]string) error {
	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	w := csv.NewWriter(outFile)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows to %s: %w", localSavePath, err)
	}
	return outFile.Close()
}

// DownloadTable scrapes a single season and saves it as <target>_<year>.csv in req.Dir.
func DownloadTable(ctx context.Context, c *Client, req Request, year int) (string, error) {
	pageURL := BuildURL(req.URLTemplate, year, req.TeamName)
	log.Printf("Scraper: Fetching %s %d from %s\n", req.Target, year, pageURL)

	doc, err := c.FetchDocument(ctx, pageURL)
	if err != nil {
		return "", err
	}
	rows, err := ExtractTable(doc, req.TableID)
	if err != nil {
		return "", fmt.Errorf("failed to extract table from %s: %w", pageURL, err)
	}

	localPath := filepath.Join(req.Dir, FileName(req.Target, year))
	if err := WriteCSV(localPath, rows); err != nil {
		return "", err
	}
	log.Printf("Scraper: Saved %d rows of %s to %s\n", len(rows), req.Target, localPath)
	return localPath, nil
}

// ScrapeYears downloads every season in req.Years. A failing season is logged
// and skipped; the paths written so far are returned with the joined errors.
func ScrapeYears(ctx context.Context, c *Client, req Request) ([]string, error) {
	if req.URLTemplate == "" {
		return nil, fmt.Errorf("no URL template configured for %s", req.Target)
	}
	if req.TableID == "" {
		return nil, fmt.Errorf("no table id configured for %s", req.Target)
	}

	var paths []string
	var errs []error
	for _, year := range req.Years {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		path, err := DownloadTable(ctx, c, req, year)
		if err != nil {
			log.Printf("ERROR Scraper: Failed to download %s %d: %v", req.Target, year, err)
			errs = append(errs, fmt.Errorf("%s %d: %w", req.Target, year, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
