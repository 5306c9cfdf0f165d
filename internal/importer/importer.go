// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/validation"
)

// DefaultBatchSize is the number of records processed between progress
// reports.
const DefaultBatchSize = 500

// ErrImportInProgress is returned when Import is called on a running importer.
var ErrImportInProgress = errors.New("import already in progress")

// StudentSaver persists one student record.
type StudentSaver interface {
	SaveStudent(ctx context.Context, item *studentstore.StudentItem) error
}

// ProgressTracker persists import progress between runs.
type ProgressTracker interface {
	// Save persists the current import progress.
	Save(ctx context.Context, stats *ImportStats) error

	// Load returns the last saved progress of source, or nil when none.
	Load(ctx context.Context, source string) (*ImportStats, error)

	// Clear removes the saved progress of source.
	Clear(ctx context.Context, source string) error
}

// Config controls an import.
type Config struct {
	// DegreeID is used for records without their own degree_id.
	DegreeID string

	// Source names the input for logs and progress tracking.
	Source string

	// BatchSize is the number of records per batch (default 500).
	BatchSize int

	// DryRun validates records without writing them.
	DryRun bool

	// Resume skips the records a previous run of the same source processed.
	Resume bool
}

// Importer loads student records into a StudentSaver.
type Importer struct {
	cfg      Config
	saver    StudentSaver
	progress ProgressTracker
	logger   zerolog.Logger

	mu      sync.RWMutex
	running bool
	stats   *ImportStats
}

// NewImporter creates an importer writing to saver.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewImporter(cfg Config, saver StudentSaver, logger zerolog.Logger) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Source == "" {
		cfg.Source = "stdin"
	}
	cfg.DegreeID = strings.TrimSpace(cfg.DegreeID)
	return &Importer{
		cfg:    cfg,
		saver:  saver,
		logger: logger.With().Str("component", "importer").Str("source", cfg.Source).Logger(),
	}
}

// SetProgressTracker enables progress persistence.
func (i *Importer) SetProgressTracker(p ProgressTracker) {
	i.progress = p
}

// Import reads every record from r and saves the valid ones. Per-record
// failures are counted in the returned stats; the error reports input or
// context failures that stopped the import.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportInProgress
	}
	i.running = true
	i.stats = &ImportStats{
		Source:    i.cfg.Source,
		StartTime: time.Now(),
		DryRun:    i.cfg.DryRun,
	}
	i.mu.Unlock()

	err := i.run(ctx, r)
	stats := i.finish()
	if err != nil {
		return stats, err
	}

	if i.progress != nil && !i.cfg.DryRun {
		if err := i.progress.Clear(ctx, i.cfg.Source); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to clear import progress")
		}
	}

	i.logger.Info().
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("Import completed")
	return stats, nil
}

func (i *Importer) run(ctx context.Context, r io.Reader) error {
	reader, err := NewRecordReader(r)
	if err != nil {
		return err
	}

	i.mu.Lock()
	i.stats.TotalRecords = reader.Total()
	i.mu.Unlock()

	skip := i.resumeOffset(ctx)
	i.logger.Info().
		Int64("total_records", reader.Total()).
		Int64("resume_offset", skip).
		Bool("dry_run", i.cfg.DryRun).
		Msg("Starting import")

	return i.processAllBatches(ctx, reader, skip)
}

// finish stamps the end time, releases the running flag and returns a copy
// of the final statistics.
func (i *Importer) finish() *ImportStats {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.running = false
	i.stats.EndTime = time.Now()
	stats := *i.stats
	return &stats
}

// resumeOffset returns how many leading records a previous run processed.
func (i *Importer) resumeOffset(ctx context.Context) int64 {
	if !i.cfg.Resume || i.progress == nil {
		return 0
	}
	prev, err := i.progress.Load(ctx, i.cfg.Source)
	if err != nil {
		i.logger.Warn().Err(err).Msg("Failed to load import progress")
		return 0
	}
	if prev == nil {
		return 0
	}
	return prev.Processed
}

func (i *Importer) processAllBatches(ctx context.Context, reader *RecordReader, skip int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := reader.ReadBatch(i.cfg.BatchSize)
		if len(batch) > 0 {
			i.processBatchAndUpdateStats(ctx, batch, &skip)
		}
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
	}
}

// processBatchAndUpdateStats processes a batch, updates statistics and saves
// progress.
func (i *Importer) processBatchAndUpdateStats(ctx context.Context, batch []StudentRecord, skip *int64) {
	resumed := min(*skip, int64(len(batch)))
	*skip -= resumed

	imported, skipped, failed := i.processBatch(ctx, batch[resumed:])

	i.mu.Lock()
	i.stats.Processed += int64(len(batch))
	i.stats.Imported += int64(imported)
	i.stats.Skipped += int64(skipped) + resumed
	i.stats.Errors += int64(failed)
	stats := *i.stats
	i.mu.Unlock()

	if i.progress != nil && !i.cfg.DryRun {
		if err := i.progress.Save(ctx, &stats); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to save import progress")
		}
	}

	i.logger.Info().
		Float64("progress_percent", stats.Progress()).
		Int64("processed", stats.Processed).
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Msg("Import progress")
}

func (i *Importer) processBatch(ctx context.Context, batch []StudentRecord) (imported, skipped, failed int) {
	for n := range batch {
		rec := &batch[n]
		item, err := i.toItem(rec)
		if err != nil {
			i.logger.Warn().Err(err).Int("student_id", rec.ID).Msg("Skipping invalid record")
			skipped++
			continue
		}
		if i.cfg.DryRun {
			imported++
			continue
		}
		if err := i.saver.SaveStudent(ctx, item); err != nil {
			i.logger.Error().Err(err).Int("student_id", rec.ID).Str("degree_id", item.DegreeID).Msg("Failed to save student")
			failed++
			continue
		}
		imported++
	}
	return imported, skipped, failed
}

// toItem validates rec and converts it into a store item.
func (i *Importer) toItem(rec *StudentRecord) (*studentstore.StudentItem, error) {
	rec.DegreeID = strings.TrimSpace(rec.DegreeID)
	if verr := validation.ValidateStruct(rec); verr != nil {
		return nil, verr
	}
	degreeID := rec.DegreeID
	if degreeID == "" {
		degreeID = i.cfg.DegreeID
	}
	if degreeID == "" {
		return nil, fmt.Errorf("student %d has no degree_id and no default degree is set", rec.ID)
	}
	return &studentstore.StudentItem{
		ID:       rec.ID,
		DegreeID: degreeID,
		Subjects: rec.Subjects,
	}, nil
}

// GetStats returns a copy of the current import statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}
	stats := *i.stats
	return &stats
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
