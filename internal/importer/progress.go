// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/coursepath/internal/studentstore"
)

const (
	progressKeyPrefix = "IMPORT#"
	progressSortKey   = "PROGRESS"
)

// KeyValueStore is the subset of studentstore.Store used for progress.
type KeyValueStore interface {
	Get(ctx context.Context, pk, sk string, target any) error
	Put(ctx context.Context, pk, sk string, value any) error
	Delete(ctx context.Context, pk, sk string) error
}

// StoreProgress implements ProgressTracker on the student store, one item
// per import source.
type StoreProgress struct {
	store KeyValueStore
}

// NewStoreProgress creates a progress tracker backed by store.
func NewStoreProgress(store KeyValueStore) *StoreProgress {
	return &StoreProgress{store: store}
}

// Save persists stats under its source.
func (p *StoreProgress) Save(ctx context.Context, stats *ImportStats) error {
	if err := p.store.Put(ctx, progressKeyPrefix+stats.Source, progressSortKey, stats); err != nil {
		return fmt.Errorf("save import progress: %w", err)
	}
	return nil
}

// Load returns the saved progress of source, or nil, nil when none was saved.
func (p *StoreProgress) Load(ctx context.Context, source string) (*ImportStats, error) {
	var stats ImportStats
	err := p.store.Get(ctx, progressKeyPrefix+source, progressSortKey, &stats)
	if errors.Is(err, studentstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load import progress: %w", err)
	}
	return &stats, nil
}

// Clear removes the saved progress of source.
func (p *StoreProgress) Clear(ctx context.Context, source string) error {
	return p.store.Delete(ctx, progressKeyPrefix+source, progressSortKey)
}
