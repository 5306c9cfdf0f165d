// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/coursepath/internal/metrics"
)

// AppendLog adds one entry to the recommendation log of a student, creating
// the log item on first use. The read-modify-write runs in one transaction.
//
//nolint:gocritic // entry passed by value, copied into the item
func (s *Store) AppendLog(ctx context.Context, degreeID string, studentID int, entry LogEntry) (err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("append_log", time.Since(start), err) }()

	pk, sk := DegreeKey(degreeID), LogsKey(studentID)
	if err := s.guard(ctx, pk, sk); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = now
	}
	entry.Algorithm = strings.ToLower(entry.Algorithm)

	return s.db.Update(func(txn *badger.Txn) error {
		key := joinKey(pk, sk)
		logs := LogsItem{PK: pk, SK: sk, CreatedAt: now}

		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("get logs: %w", err)
		default:
			if err := item.Value(func(val []byte) error { return decode(val, &logs) }); err != nil {
				return err
			}
		}

		logs.Logs = append(logs.Logs, entry)
		logs.LastUpdated = now

		data, err := json.Marshal(&logs)
		if err != nil {
			return fmt.Errorf("marshal logs: %w", err)
		}
		return txn.Set(key, data)
	})
}

// GetLogs returns the recommendation log of a student, newest first, after
// applying filter. A student without logs yields an empty result.
//
//nolint:gocritic // filter passed by value for immutability
func (s *Store) GetLogs(ctx context.Context, degreeID string, studentID int, filter LogFilter) (*LogsResult, error) {
	var item LogsItem
	err := s.Get(ctx, DegreeKey(degreeID), LogsKey(studentID), &item)
	if errors.Is(err, ErrNotFound) {
		return &LogsResult{Logs: []LogEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}

	alg := strings.ToLower(filter.Algorithm)
	startDay := truncateDay(filter.StartDay)
	endDay := truncateDay(filter.EndDay)

	out := make([]LogEntry, 0, len(item.Logs))
	for _, e := range item.Logs {
		if alg != "" && e.Algorithm != alg {
			continue
		}
		day := truncateDay(e.Date)
		if !startDay.IsZero() && day.Before(startDay) {
			continue
		}
		if !endDay.IsZero() && day.After(endDay) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return &LogsResult{
		Logs:              out,
		TotalBeforeFilter: len(item.Logs),
		LastUpdated:       item.LastUpdated,
	}, nil
}

// LogRecommendation appends a served recommendation to the student's log.
func (s *Store) LogRecommendation(ctx context.Context, degreeID string, studentID int, algorithm string, params map[string]any, subjects []string) error {
	return s.AppendLog(ctx, degreeID, studentID, LogEntry{
		Algorithm: algorithm,
		Params:    params,
		Subjects:  append([]string{}, subjects...),
	})
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
