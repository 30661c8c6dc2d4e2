// backend/services/ingest_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/database"
	"github.com/gewnthar/statsprep/ingest"
	"github.com/gewnthar/statsprep/timezone"
	"github.com/google/uuid"
)

// IngestionResult summarizes one completed ingestion run.
type IngestionResult struct {
	RunID        string    `json:"run_id"`
	Target       string    `json:"target"`
	OutputPath   string    `json:"output_path"`
	ManifestPath string    `json:"manifest_path,omitempty"`
	Files        int       `json:"files"`
	Rows         int       `json:"rows"`
	Columns      []string  `json:"columns"`
	Appended     int64     `json:"appended"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service runs scrapes and ingestions for the configured targets. Store is
// nil when the database is disabled.
type Service struct {
	cfg   config.Config
	store database.Store
	now   func() time.Time
}

func NewService(cfg config.Config, store database.Store) *Service {
	return &Service{cfg: cfg, store: store, now: time.Now}
}

// sourceFiles looks for <input_dir>/<target>/*.csv and falls back to the
// <target>_<yyyy>.csv files directly under input_dir.
func (s *Service) sourceFiles(target string) ([]string, error) {
	dir := filepath.Join(s.cfg.Ingestion.InputDir, target)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return ingest.Discover(dir)
	}

	all, err := ingest.Discover(s.cfg.Ingestion.InputDir)
	if err != nil {
		return nil, err
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(target) + `_\d{4}\.csv$`)
	var paths []string
	for _, p := range all {
		if pattern.MatchString(filepath.Base(p)) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s csv files found in %s: %w", target, s.cfg.Ingestion.InputDir, ingest.ErrNoSourceFiles)
	}
	return paths, nil
}

// RunIngestion preprocesses every source file of target, reconciles the
// result with the schema file and the target table, then writes the output
// CSV and appends the rows to the database when one is configured.
func (s *Service) RunIngestion(ctx context.Context, target string) (*IngestionResult, error) {
	tc := s.cfg.Target(target)
	runID := uuid.NewString()
	log.Printf("Service: Starting ingestion %s for target %s\n", runID, target)

	paths, err := s.sourceFiles(target)
	if err != nil {
		return nil, err
	}
	policy, err := ingest.ParseCollisionPolicy(s.cfg.Ingestion.CollisionPolicy)
	if err != nil {
		return nil, err
	}

	ing, err := ingest.New(paths, ingest.Options{
		Target:          target,
		Storage:         tc.OutputName,
		HeaderRows:      tc.HeaderRows,
		Location:        timezone.Load(s.cfg.Ingestion.TimeZone),
		Now:             s.now,
		CollisionPolicy: policy,
		RunID:           runID,
	})
	if err != nil {
		return nil, err
	}
	if _, err := ing.Preprocess(); err != nil {
		return nil, fmt.Errorf("failed to preprocess %s: %w", target, err)
	}

	required, err := s.requiredColumns(ctx, tc, ing)
	if err != nil {
		return nil, err
	}
	if err := ing.EnsureColumns(required...); err != nil {
		return nil, err
	}

	table, err := ing.Table()
	if err != nil {
		return nil, err
	}

	result := &IngestionResult{
		RunID:      runID,
		Target:     target,
		OutputPath: ingest.OutputPath(s.cfg.Ingestion.OutputDir, tc.OutputName),
		Files:      len(paths),
		Rows:       table.NumRows(),
		Columns:    table.Names(),
		CreatedAt:  ing.CreatedAt(),
	}
	if err := ingest.WriteCSV(result.OutputPath, table); err != nil {
		return nil, err
	}
	log.Printf("Service: Wrote %d rows of %s to %s\n", result.Rows, target, result.OutputPath)

	if s.cfg.Ingestion.WriteManifest {
		result.ManifestPath = ingest.ManifestPath(s.cfg.Ingestion.OutputDir, tc.OutputName)
		if err := ingest.WriteManifest(result.ManifestPath, ingest.Manifest(runID, ing.Sources())); err != nil {
			return nil, err
		}
	}

	if s.store != nil {
		n, err := s.store.AppendTable(ctx, ing.Schema(), ing.Storage(), table)
		if err != nil {
			log.Printf("ERROR Service: Failed to append %s to %s.%s: %v\n", target, ing.Schema(), ing.Storage(), err)
			return nil, err
		}
		result.Appended = n
	}

	log.Printf("Service: Ingestion %s for target %s finished\n", runID, target)
	return result, nil
}

func (s *Service) requiredColumns(ctx context.Context, tc config.TargetConfig, ing *ingest.Ingestor) ([]string, error) {
	var required []string
	if tc.SchemaFile != "" {
		cols, err := ingest.LoadSchema(tc.SchemaFile)
		if err != nil {
			return nil, err
		}
		required = append(required, ingest.SchemaNames(cols)...)
	}
	if s.store != nil {
		cols, err := s.store.TargetColumns(ctx, ing.Schema(), ing.Storage())
		if err != nil {
			return nil, err
		}
		required = append(required, cols...)
	}
	return required, nil
}
