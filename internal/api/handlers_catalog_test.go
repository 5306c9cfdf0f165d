// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/coursepath/internal/studentstore"
)

func requirementsBody(total ...string) map[string]any {
	subjects := make([]map[string]any, len(total))
	for i, code := range total {
		subjects[i] = map[string]any{"code": code, "type": "subject"}
	}
	return map[string]any{
		"total_requirements": []map[string]any{{"id": "1", "min": len(total), "subjects": subjects}},
		"standing":           2,
	}
}

func TestCatalog_Subjects(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/subjects/mat101", map[string]any{"name": "Calculus I"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var item studentstore.SubjectItem
	decodeBody(t, rec, &item)
	assert.Equal(t, "MAT101", item.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/subjects/FIS101", map[string]any{"name": "Physics I"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list SubjectsResponse
	decodeBody(t, rec, &list)
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Subjects, 2)
	assert.Equal(t, "FIS101", list.Subjects[0].Code)

	rec = s.do(t, http.MethodGet, "/api/v1/subjects/Mat101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &item)
	assert.Equal(t, "Calculus I", item.Name)

	rec = s.do(t, http.MethodGet, "/api/v1/subjects/QUI101", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/subjects/QUI101", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog_SubjectDetails(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	for _, code := range []string{"A", "B", "C"} {
		rec := s.do(t, http.MethodPut, "/api/v1/subjects/"+code, map[string]any{"name": "Subject " + code})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := s.do(t, http.MethodPut, "/api/v1/degrees/"+testDegree+"/subjects/c/requirements", requirementsBody("A", "b"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/degrees/"+testDegree+"/subjects/C", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var details studentstore.SubjectDetails
	decodeBody(t, rec, &details)
	assert.Equal(t, "Subject C", details.Subject.Name)
	assert.Equal(t, 2, details.Requirements.Standing)
	assert.Equal(t, []string{"A", "B"}, details.Requirements.Prerequisites())
	assert.Empty(t, details.RequiredBy)

	rec = s.do(t, http.MethodGet, "/api/v1/degrees/"+testDegree+"/subjects/A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &details)
	assert.Empty(t, details.Requirements.TotalRequirements)
	assert.Equal(t, []string{"C"}, details.RequiredBy)

	rec = s.do(t, http.MethodGet, "/api/v1/degrees/"+testDegree+"/key-courses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var keys KeyCoursesResponse
	decodeBody(t, rec, &keys)
	assert.Equal(t, []string{"A", "B"}, keys.KeyCourses)

	rec = s.do(t, http.MethodGet, "/api/v1/degrees/"+testDegree+"/subjects/Z", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	t.Run("invalid requirements", func(t *testing.T) {
		body := map[string]any{"total_requirements": []map[string]any{{"id": "1", "min": 1, "subjects": []any{}}}}
		rec := s.do(t, http.MethodPut, "/api/v1/degrees/"+testDegree+"/subjects/C/requirements", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPut, "/api/v1/degrees/"+testDegree+"/subjects/C/requirements", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCatalog_Degree(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	path := "/api/v1/degrees/" + testDegree

	rec := s.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPut, path, map[string]any{
		"university": "Universidad Nacional",
		"degree":     "Ingenieria en Sistemas",
		"plan":       "2008",
		"subjects": []map[string]any{
			{"id": 1, "code": "A", "name": "Subject A", "semester": 1},
			{"id": 2, "code": "B", "name": "Subject B", "semester": 2, "subject_ids": []int{1}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var degree studentstore.DegreeItem
	decodeBody(t, rec, &degree)
	assert.Equal(t, testDegree, degree.ID)
	assert.Equal(t, "2008", degree.Plan)
	require.Len(t, degree.Subjects, 2)
	assert.Equal(t, []int{1}, degree.Subjects[1].SubjectIDs)

	rec = s.do(t, http.MethodPut, path, map[string]any{"degree": "missing plan"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Student routes under the same degree are unaffected.
	rec = s.do(t, http.MethodGet, path+"/students", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalog_StoredPrerequisitesPromotedBySPM(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.seedDegree(t)

	rec := s.do(t, http.MethodPut, "/api/v1/degrees/"+testDegree+"/subjects/E/requirements", requirementsBody("D"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	s.train(t)

	rec = s.do(t, http.MethodPost, "/api/v1/recommendations/spm", map[string]any{"student_id": 5})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Recommendations []struct {
			Subject   string `json:"subject"`
			KeyCourse bool   `json:"key_course"`
		} `json:"recommendations"`
	}
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "D", resp.Recommendations[0].Subject)
	assert.True(t, resp.Recommendations[0].KeyCourse)
	assert.Equal(t, "C", resp.Recommendations[1].Subject)
	assert.False(t, resp.Recommendations[1].KeyCourse)
}

func TestCatalog_NotConfigured(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	h := NewHandler(s.engine, s.store, nil, HandlerConfig{DefaultDegreeID: testDegree})
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	s.handler = NewRouter(h, RouterConfig{Middleware: mw}).SetupChi()

	rec := s.do(t, http.MethodGet, "/api/v1/subjects", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/degrees/"+testDegree, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
