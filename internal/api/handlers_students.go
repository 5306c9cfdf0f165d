// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/validation"
)

// studentPath reads and validates the degree and student path parameters.
// It writes the error response itself and reports false on failure.
func studentPath(w http.ResponseWriter, r *http.Request) (validation.StudentPath, bool) {
	path := validation.StudentPath{DegreeID: chi.URLParam(r, "degreeID")}

	id, err := strconv.Atoi(chi.URLParam(r, "studentID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "student id must be an integer", nil)
		return path, false
	}
	path.StudentID = id

	if verr := validation.ValidateStruct(&path); verr != nil {
		respondValidationError(w, r, verr)
		return path, false
	}
	return path, true
}

// queryInt parses an optional integer query parameter. Malformed values
// yield -1 so validation rejects them instead of silently using a default.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

// StudentsPage is the body of the student listing.
type StudentsPage struct {
	Students  []studentstore.StudentItem `json:"students"`
	Count     int                        `json:"count"`
	NextToken string                     `json:"next_token,omitempty"`
}

// ListStudents handles GET /api/v1/degrees/{degreeID}/students?limit=&token=.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	path := validation.StudentPath{DegreeID: chi.URLParam(r, "degreeID"), StudentID: 1}
	if verr := validation.ValidateStruct(&path); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	query := validation.StudentsQuery{
		Limit: queryInt(r, "limit"),
		Token: r.URL.Query().Get("token"),
	}
	if verr := validation.ValidateStruct(&query); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	if query.Limit == 0 {
		query.Limit = h.config.DefaultPageSize
	}

	students, next, err := h.store.ListStudentsPage(r.Context(), path.DegreeID, query.Limit, query.Token)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, StudentsPage{Students: students, Count: len(students), NextToken: next})
}

// PutStudent handles PUT /api/v1/degrees/{degreeID}/students/{studentID}.
// The record replaces any previous one; the student plan is created from it
// or updated with the subjects whose status, grade or semester changed.
func (h *Handler) PutStudent(w http.ResponseWriter, r *http.Request) {
	path, ok := studentPath(w, r)
	if !ok {
		return
	}

	var req validation.SubjectsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	item := &studentstore.StudentItem{
		ID:       path.StudentID,
		DegreeID: path.DegreeID,
		Subjects: req.Subjects,
	}
	if err := h.store.SaveStudent(r.Context(), item); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.engine.InvalidateStudent(path.DegreeID, path.StudentID)

	logging.Ctx(r.Context()).Debug().
		Str("degree_id", path.DegreeID).
		Int("student_id", path.StudentID).
		Int("subjects", len(req.Subjects)).
		Msg("Student record stored")

	respondJSON(w, http.StatusOK, item)
}

// GetStudent handles GET /api/v1/degrees/{degreeID}/students/{studentID}.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	path, ok := studentPath(w, r)
	if !ok {
		return
	}

	item, err := h.store.GetStudent(r.Context(), path.DegreeID, path.StudentID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// GetPlan handles GET /api/v1/degrees/{degreeID}/students/{studentID}/plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	path, ok := studentPath(w, r)
	if !ok {
		return
	}

	plan, err := h.store.GetPlan(r.Context(), path.DegreeID, path.StudentID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// EditPlan handles PUT /api/v1/degrees/{degreeID}/students/{studentID}/plan.
// Subjects are matched by code; approved subjects cannot be edited. A body
// that changes nothing answers 409.
func (h *Handler) EditPlan(w http.ResponseWriter, r *http.Request) {
	path, ok := studentPath(w, r)
	if !ok {
		return
	}

	var req validation.SubjectsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	plan, err := h.store.EditPlan(r.Context(), path.DegreeID, path.StudentID, req.Subjects)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

// GetLogs handles GET /api/v1/degrees/{degreeID}/students/{studentID}/logs.
//
// Query parameters: algorithm (pm|spm), start_day and end_day (YYYY-MM-DD,
// inclusive) and limit. Entries are returned newest first.
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	path, ok := studentPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	query := validation.LogsQuery{
		Algorithm: q.Get("algorithm"),
		StartDay:  q.Get("start_day"),
		EndDay:    q.Get("end_day"),
		Limit:     queryInt(r, "limit"),
	}
	if verr := validation.ValidateStruct(&query); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start, end := query.Days()
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "end_day must not be before start_day", nil)
		return
	}

	result, err := h.store.GetLogs(r.Context(), path.DegreeID, path.StudentID, studentstore.LogFilter{
		Algorithm: query.Algorithm,
		StartDay:  start,
		EndDay:    end,
		Limit:     query.Limit,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
