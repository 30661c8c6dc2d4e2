// backend/services/scrape_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gewnthar/statsprep/scraper"
	"github.com/gewnthar/statsprep/utils"
)

var ErrInvalidYears = errors.New("invalid years")

// ScrapeResult lists the files written by a scrape and the seasons that failed.
type ScrapeResult struct {
	Target string   `json:"target"`
	Files  []string `json:"files"`
	Errors []string `json:"errors,omitempty"`
}

// RunScrape downloads target for each configured season into
// <input_dir>/<target>. A non-empty years overrides the configured list.
// The error is set only when no season could be saved.
func (s *Service) RunScrape(ctx context.Context, target, years string) (*ScrapeResult, error) {
	tc := s.cfg.Target(target)
	if years == "" {
		years = s.cfg.Scraper.Years
	}
	yearList, err := utils.ParseYears(years)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrInvalidYears, target, err)
	}

	client := scraper.NewClient(scraper.ClientOptions{
		UserAgent:         s.cfg.Scraper.UserAgent,
		Timeout:           s.cfg.Scraper.Timeout,
		RequestsPerSecond: s.cfg.Scraper.RequestsPerSecond,
	})

	log.Printf("Service: Scraping %s for %d seasons\n", target, len(yearList))
	paths, err := scraper.ScrapeYears(ctx, client, scraper.Request{
		Target:      target,
		Dir:         filepath.Join(s.cfg.Ingestion.InputDir, target),
		Years:       yearList,
		URLTemplate: tc.URLTemplate,
		TableID:     tc.TableID,
		TeamName:    s.cfg.Scraper.TeamName,
	})

	result := &ScrapeResult{Target: target, Files: paths}
	if err != nil {
		if len(paths) == 0 {
			return nil, err
		}
		log.Printf("ERROR Service: Scrape of %s finished with errors: %v\n", target, err)
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}
