// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/coursepath/internal/logging"
	"github.com/tomtom215/coursepath/internal/studentstore"
	"github.com/tomtom215/coursepath/internal/validation"
)

// SubjectsResponse is the body of GET /api/v1/subjects.
type SubjectsResponse struct {
	Subjects []studentstore.SubjectItem `json:"subjects"`
	Count    int                        `json:"count"`
}

// KeyCoursesResponse is the body of GET /api/v1/degrees/{degreeID}/key-courses.
type KeyCoursesResponse struct {
	DegreeID   string   `json:"degree_id"`
	KeyCourses []string `json:"key_courses"`
}

// catalogReady answers 503 when no catalog is wired.
func (h *Handler) catalogReady(w http.ResponseWriter, r *http.Request) bool {
	if h.catalog == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUnavailable, ErrCatalogDisabled.Error(), nil)
		return false
	}
	return true
}

// subjectPath reads and validates the subject code and the optional degree.
func subjectPath(w http.ResponseWriter, r *http.Request) (validation.SubjectPath, bool) {
	path := validation.SubjectPath{
		DegreeID: chi.URLParam(r, "degreeID"),
		Code:     chi.URLParam(r, "code"),
	}
	if verr := validation.ValidateStruct(&path); verr != nil {
		respondValidationError(w, r, verr)
		return path, false
	}
	return path, true
}

func degreePath(w http.ResponseWriter, r *http.Request) (validation.DegreePath, bool) {
	path := validation.DegreePath{DegreeID: chi.URLParam(r, "degreeID")}
	if verr := validation.ValidateStruct(&path); verr != nil {
		respondValidationError(w, r, verr)
		return path, false
	}
	return path, true
}

// ListSubjects handles GET /api/v1/subjects.
func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	subjects, err := h.catalog.ListSubjects(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SubjectsResponse{Subjects: subjects, Count: len(subjects)})
}

// GetSubject handles GET /api/v1/subjects/{code}.
func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := subjectPath(w, r)
	if !ok {
		return
	}
	item, err := h.catalog.GetSubject(r.Context(), path.Code)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// PutSubject handles PUT /api/v1/subjects/{code}.
func (h *Handler) PutSubject(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := subjectPath(w, r)
	if !ok {
		return
	}

	var req validation.SubjectRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	item := &studentstore.SubjectItem{Code: path.Code, Name: req.Name}
	if err := h.catalog.PutSubject(r.Context(), item); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// GetSubjectDetails handles GET /api/v1/degrees/{degreeID}/subjects/{code}.
// The response carries the catalog subject, its partial and total
// requirements in the degree and the degree subjects that require it.
func (h *Handler) GetSubjectDetails(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := subjectPath(w, r)
	if !ok {
		return
	}
	details, err := h.catalog.GetSubjectDetails(r.Context(), path.DegreeID, path.Code)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// PutRequirements handles
// PUT /api/v1/degrees/{degreeID}/subjects/{code}/requirements. Stored
// prerequisites become SPM key courses on the next training run.
func (h *Handler) PutRequirements(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := subjectPath(w, r)
	if !ok {
		return
	}

	var req validation.RequirementsRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	item := &studentstore.RequirementsItem{
		DegreeID:            path.DegreeID,
		SubjectCode:         path.Code,
		Name:                req.Name,
		PartialRequirements: toGroups(req.PartialRequirements),
		TotalRequirements:   toGroups(req.TotalRequirements),
		Standing:            req.Standing,
	}
	if err := h.catalog.PutRequirements(r.Context(), item); err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("degree_id", path.DegreeID).
		Str("subject", item.SubjectCode).
		Strs("prerequisites", item.Prerequisites()).
		Msg("Subject requirements stored")

	respondJSON(w, http.StatusOK, item)
}

func toGroups(in []validation.RequirementGroupRequest) []studentstore.RequirementGroup {
	out := make([]studentstore.RequirementGroup, len(in))
	for i, g := range in {
		subjects := make([]studentstore.RequiredSubject, len(g.Subjects))
		for j, s := range g.Subjects {
			subjects[j] = studentstore.RequiredSubject{Code: s.Code, Name: s.Name, Type: s.Type}
		}
		out[i] = studentstore.RequirementGroup{ID: g.ID, Min: g.Min, Subjects: subjects}
	}
	return out
}

// GetKeyCourses handles GET /api/v1/degrees/{degreeID}/key-courses.
func (h *Handler) GetKeyCourses(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := degreePath(w, r)
	if !ok {
		return
	}
	keys, err := h.catalog.KeyCourses(r.Context(), path.DegreeID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, KeyCoursesResponse{DegreeID: path.DegreeID, KeyCourses: keys})
}

// GetDegree handles GET /api/v1/degrees/{degreeID}.
func (h *Handler) GetDegree(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := degreePath(w, r)
	if !ok {
		return
	}
	item, err := h.catalog.GetDegree(r.Context(), path.DegreeID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// PutDegree handles PUT /api/v1/degrees/{degreeID}.
func (h *Handler) PutDegree(w http.ResponseWriter, r *http.Request) {
	if !h.catalogReady(w, r) {
		return
	}
	path, ok := degreePath(w, r)
	if !ok {
		return
	}

	var req validation.DegreeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	subjects := make([]studentstore.DegreeSubject, len(req.Subjects))
	for i, s := range req.Subjects {
		subjects[i] = studentstore.DegreeSubject{
			ID:         s.ID,
			Code:       s.Code,
			Name:       s.Name,
			Semester:   s.Semester,
			SubjectIDs: s.SubjectIDs,
		}
	}
	item := &studentstore.DegreeItem{
		ID:         path.DegreeID,
		University: req.University,
		Degree:     req.Degree,
		Plan:       req.Plan,
		Subjects:   subjects,
	}
	if err := h.catalog.PutDegree(r.Context(), item); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
