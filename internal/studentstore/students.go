// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/coursepath/internal/metrics"
	"github.com/tomtom215/coursepath/internal/records"
)

// ErrNoPlanChanges is returned by EditPlan when no subject could be updated,
// either because none matched or because every match is already approved.
var ErrNoPlanChanges = errors.New("no plan subject was updated")

// Subject fields a plan edit may change.
var planEditableFields = []string{"status", "grade", "semester"}

// SaveStudent stores a student record. The student plan is created from the
// record when missing; otherwise plan subjects whose status, grade or
// semester changed are replaced by the new version.
func (s *Store) SaveStudent(ctx context.Context, item *StudentItem) error {
	if item.DegreeID == "" {
		return fmt.Errorf("%w: degree id", ErrInvalidKey)
	}
	item.PK = DegreeKey(item.DegreeID)
	item.SK = StudentKey(item.ID)
	item.UpdatedAt = time.Now().UTC()

	if err := s.Put(ctx, item.PK, item.SK, item); err != nil {
		return fmt.Errorf("save student %d: %w", item.ID, err)
	}

	plan, err := s.GetPlan(ctx, item.DegreeID, item.ID)
	if errors.Is(err, ErrNotFound) {
		created := *item
		return s.PutPlan(ctx, &created)
	}
	if err != nil {
		return err
	}

	if mergeChangedSubjects(plan, item.Subjects) {
		return s.PutPlan(ctx, plan)
	}
	return nil
}

// GetStudent returns one stored student record or ErrNotFound.
func (s *Store) GetStudent(ctx context.Context, degreeID string, studentID int) (*StudentItem, error) {
	var item StudentItem
	if err := s.Get(ctx, DegreeKey(degreeID), StudentKey(studentID), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListStudents returns every student record of a degree. Items that cannot be
// decoded are skipped and logged.
func (s *Store) ListStudents(ctx context.Context, degreeID string) ([]StudentItem, error) {
	items, err := s.QueryAll(ctx, DegreeKey(degreeID), studentKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list students of degree %s: %w", degreeID, err)
	}

	students := make([]StudentItem, 0, len(items))
	for _, it := range items {
		var st StudentItem
		if err := it.Decode(&st); err != nil {
			metrics.StoreMalformedItems.Inc()
			s.logger.Warn().Err(err).Str("pk", it.PK).Str("sk", it.SK).Msg("skipping malformed student item")
			continue
		}
		students = append(students, st)
	}
	return students, nil
}

// ListStudentsPage returns one page of student records of a degree in key
// order and the token of the next page, empty on the last one. Malformed
// items are skipped like in ListStudents.
func (s *Store) ListStudentsPage(ctx context.Context, degreeID string, limit int, token string) ([]StudentItem, string, error) {
	page, err := s.Query(ctx, DegreeKey(degreeID), studentKeyPrefix, limit, token)
	if err != nil {
		return nil, "", err
	}

	students := make([]StudentItem, 0, len(page.Items))
	for _, it := range page.Items {
		var st StudentItem
		if err := it.Decode(&st); err != nil {
			metrics.StoreMalformedItems.Inc()
			s.logger.Warn().Err(err).Str("pk", it.PK).Str("sk", it.SK).Msg("skipping malformed student item")
			continue
		}
		students = append(students, st)
	}
	return students, page.NextToken, nil
}

// GetPlan returns the plan of a student or ErrNotFound.
func (s *Store) GetPlan(ctx context.Context, degreeID string, studentID int) (*StudentItem, error) {
	var plan StudentItem
	if err := s.Get(ctx, DegreeKey(degreeID), PlanKey(studentID), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// PutPlan replaces the plan of a student.
func (s *Store) PutPlan(ctx context.Context, plan *StudentItem) error {
	if plan.DegreeID == "" {
		return fmt.Errorf("%w: degree id", ErrInvalidKey)
	}
	plan.PK = DegreeKey(plan.DegreeID)
	plan.SK = PlanKey(plan.ID)
	plan.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, plan.PK, plan.SK, plan); err != nil {
		return fmt.Errorf("save plan %d: %w", plan.ID, err)
	}
	return nil
}

// EditPlan applies subject updates to an existing plan. Each update is matched
// by course code; approved subjects are left untouched and only the status,
// grade and semester fields present in the update are copied.
func (s *Store) EditPlan(ctx context.Context, degreeID string, studentID int, updates []map[string]any) (*StudentItem, error) {
	plan, err := s.GetPlan(ctx, degreeID, studentID)
	if err != nil {
		return nil, err
	}

	updated := false
	for _, upd := range updates {
		code := records.ParseAttempt(upd).NormalizedCode()
		if code == "" {
			continue
		}
		for i, subj := range plan.Subjects {
			current := records.ParseAttempt(subj)
			if current.NormalizedCode() != code {
				continue
			}
			if current.NormalizedStatus() == records.StatusApproved {
				break
			}
			for _, field := range planEditableFields {
				if v, ok := upd[field]; ok && v != nil {
					plan.Subjects[i][field] = v
				}
			}
			updated = true
			break
		}
	}
	if !updated {
		return nil, ErrNoPlanChanges
	}

	if err := s.PutPlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// mergeChangedSubjects replaces plan subjects whose status, grade or semester
// differ from the incoming record. It reports whether anything changed.
func mergeChangedSubjects(plan *StudentItem, incoming []map[string]any) bool {
	changed := false
	for _, next := range incoming {
		n := records.ParseAttempt(next)
		for i, subj := range plan.Subjects {
			cur := records.ParseAttempt(subj)
			if cur.NormalizedCode() != n.NormalizedCode() {
				continue
			}
			if cur.Status != n.Status || !sameNumber(cur.Grade, n.Grade) || !sameNumber(cur.Semester, n.Semester) {
				plan.Subjects[i] = next
				changed = true
			}
			break
		}
	}
	return changed
}

func sameNumber(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
