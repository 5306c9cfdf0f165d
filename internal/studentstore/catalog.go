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

	"github.com/tomtom215/coursepath/internal/metrics"
)

// SubjectItem is a subject of the shared catalog.
type SubjectItem struct {
	PK        string    `json:"PK"`
	SK        string    `json:"SK"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequiredSubject is one member of a requirement group.
type RequiredSubject struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// RequirementGroup is satisfied when at least Min of its subjects are.
type RequirementGroup struct {
	ID       string            `json:"id"`
	Min      int               `json:"min"`
	Subjects []RequiredSubject `json:"subjects"`
}

// RequirementsItem holds what a degree demands before a subject can be taken.
// Partial requirements must be regularized and total requirements approved.
type RequirementsItem struct {
	PK                  string             `json:"PK"`
	SK                  string             `json:"SK"`
	DegreeID            string             `json:"degree_id"`
	SubjectCode         string             `json:"subject_code"`
	Name                string             `json:"name,omitempty"`
	PartialRequirements []RequirementGroup `json:"partial_requirements"`
	TotalRequirements   []RequirementGroup `json:"total_requirements"`
	Standing            int                `json:"standing"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Prerequisites returns the distinct codes named by both requirement kinds,
// sorted.
func (it *RequirementsItem) Prerequisites() []string {
	seen := make(map[string]struct{})
	for _, groups := range [][]RequirementGroup{it.PartialRequirements, it.TotalRequirements} {
		for _, g := range groups {
			for _, sub := range g.Subjects {
				if code := normalizeCode(sub.Code); code != "" {
					seen[code] = struct{}{}
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// SubjectDetails is a catalog subject together with its requirements in one
// degree and the subjects of that degree that require it.
type SubjectDetails struct {
	Subject      SubjectItem      `json:"subject"`
	Requirements RequirementsItem `json:"requirements"`
	RequiredBy   []string         `json:"required_by"`
}

// DegreeSubject is a subject as laid out in a degree plan.
type DegreeSubject struct {
	ID         int     `json:"id,omitempty"`
	Code       string  `json:"code,omitempty"`
	Name       string  `json:"name"`
	Semester   float64 `json:"semester"`
	SubjectIDs []int   `json:"subject_ids,omitempty"`
}

// DegreeItem describes a degree of the university.
type DegreeItem struct {
	PK         string          `json:"PK"`
	SK         string          `json:"SK"`
	ID         string          `json:"id"`
	University string          `json:"university,omitempty"`
	Degree     string          `json:"degree,omitempty"`
	Plan       string          `json:"plan"`
	Subjects   []DegreeSubject `json:"subjects"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// PutSubject stores a catalog subject. The code is trimmed and upper-cased.
func (s *Store) PutSubject(ctx context.Context, item *SubjectItem) error {
	item.Code = normalizeCode(item.Code)
	if item.Code == "" {
		return fmt.Errorf("%w: subject code", ErrInvalidKey)
	}
	item.PK = CatalogPartition
	item.SK = SubjectKey(item.Code)
	item.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, item.PK, item.SK, item); err != nil {
		return fmt.Errorf("save subject %s: %w", item.Code, err)
	}
	return nil
}

// GetSubject returns a catalog subject or ErrNotFound.
func (s *Store) GetSubject(ctx context.Context, code string) (*SubjectItem, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("%w: subject code", ErrInvalidKey)
	}
	var item SubjectItem
	if err := s.Get(ctx, CatalogPartition, SubjectKey(code), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListSubjects returns the whole catalog ordered by code. Malformed items are
// skipped and logged.
func (s *Store) ListSubjects(ctx context.Context) ([]SubjectItem, error) {
	items, err := s.QueryAll(ctx, CatalogPartition, subjectKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	subjects := make([]SubjectItem, 0, len(items))
	for _, it := range items {
		var sub SubjectItem
		if err := it.Decode(&sub); err != nil {
			metrics.StoreMalformedItems.Inc()
			s.logger.Warn().Err(err).Str("pk", it.PK).Str("sk", it.SK).Msg("skipping malformed subject item")
			continue
		}
		subjects = append(subjects, sub)
	}
	return subjects, nil
}

// PutRequirements stores the requirements of one subject in a degree.
func (s *Store) PutRequirements(ctx context.Context, item *RequirementsItem) error {
	item.SubjectCode = normalizeCode(item.SubjectCode)
	if item.DegreeID == "" || item.SubjectCode == "" {
		return fmt.Errorf("%w: degree id and subject code", ErrInvalidKey)
	}
	for _, groups := range [][]RequirementGroup{item.PartialRequirements, item.TotalRequirements} {
		for i := range groups {
			for j := range groups[i].Subjects {
				groups[i].Subjects[j].Code = normalizeCode(groups[i].Subjects[j].Code)
			}
		}
	}
	if item.PartialRequirements == nil {
		item.PartialRequirements = []RequirementGroup{}
	}
	if item.TotalRequirements == nil {
		item.TotalRequirements = []RequirementGroup{}
	}

	item.PK = DegreeKey(item.DegreeID)
	item.SK = SubjectKey(item.SubjectCode)
	item.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, item.PK, item.SK, item); err != nil {
		return fmt.Errorf("save requirements of %s: %w", item.SubjectCode, err)
	}
	return nil
}

// GetRequirements returns the requirements of a subject in a degree. A
// subject without stored requirements has none: the result is an empty item,
// not ErrNotFound.
func (s *Store) GetRequirements(ctx context.Context, degreeID, code string) (*RequirementsItem, error) {
	code = normalizeCode(code)
	if degreeID == "" || code == "" {
		return nil, fmt.Errorf("%w: degree id and subject code", ErrInvalidKey)
	}

	var item RequirementsItem
	err := s.Get(ctx, DegreeKey(degreeID), SubjectKey(code), &item)
	if errors.Is(err, ErrNotFound) {
		return &RequirementsItem{
			PK:                  DegreeKey(degreeID),
			SK:                  SubjectKey(code),
			DegreeID:            degreeID,
			SubjectCode:         code,
			PartialRequirements: []RequirementGroup{},
			TotalRequirements:   []RequirementGroup{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListRequirements returns every requirements item of a degree ordered by
// subject code.
func (s *Store) ListRequirements(ctx context.Context, degreeID string) ([]RequirementsItem, error) {
	items, err := s.QueryAll(ctx, DegreeKey(degreeID), subjectKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list requirements of degree %s: %w", degreeID, err)
	}

	out := make([]RequirementsItem, 0, len(items))
	for _, it := range items {
		var req RequirementsItem
		if err := it.Decode(&req); err != nil {
			metrics.StoreMalformedItems.Inc()
			s.logger.Warn().Err(err).Str("pk", it.PK).Str("sk", it.SK).Msg("skipping malformed requirements item")
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

// GetSubjectDetails returns a catalog subject with its requirements in the
// degree and the degree subjects that list it as a prerequisite. It returns
// ErrNotFound when the subject is not in the catalog.
func (s *Store) GetSubjectDetails(ctx context.Context, degreeID, code string) (*SubjectDetails, error) {
	subject, err := s.GetSubject(ctx, code)
	if err != nil {
		return nil, err
	}
	reqs, err := s.GetRequirements(ctx, degreeID, subject.Code)
	if err != nil {
		return nil, err
	}
	all, err := s.ListRequirements(ctx, degreeID)
	if err != nil {
		return nil, err
	}

	requiredBy := []string{}
	for i := range all {
		for _, pre := range all[i].Prerequisites() {
			if pre == subject.Code {
				requiredBy = append(requiredBy, all[i].SubjectCode)
				break
			}
		}
	}
	if reqs.Name == "" {
		reqs.Name = subject.Name
	}

	return &SubjectDetails{Subject: *subject, Requirements: *reqs, RequiredBy: requiredBy}, nil
}

// KeyCourses returns the prerequisite codes of a degree: every subject some
// other subject of the degree requires, sorted.
func (s *Store) KeyCourses(ctx context.Context, degreeID string) ([]string, error) {
	all, err := s.ListRequirements(ctx, degreeID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for i := range all {
		for _, pre := range all[i].Prerequisites() {
			seen[pre] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out, nil
}

// PutDegree stores the description of a degree.
func (s *Store) PutDegree(ctx context.Context, item *DegreeItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: degree id", ErrInvalidKey)
	}
	if item.Subjects == nil {
		item.Subjects = []DegreeSubject{}
	}
	item.PK = UniversityPartition
	item.SK = DegreeKey(item.ID)
	item.UpdatedAt = time.Now().UTC()
	if err := s.Put(ctx, item.PK, item.SK, item); err != nil {
		return fmt.Errorf("save degree %s: %w", item.ID, err)
	}
	return nil
}

// GetDegree returns the description of a degree or ErrNotFound.
func (s *Store) GetDegree(ctx context.Context, degreeID string) (*DegreeItem, error) {
	var item DegreeItem
	if err := s.Get(ctx, UniversityPartition, DegreeKey(degreeID), &item); err != nil {
		return nil, err
	}
	if item.Subjects == nil {
		item.Subjects = []DegreeSubject{}
	}
	return &item, nil
}
