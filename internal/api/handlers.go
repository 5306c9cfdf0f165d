// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"context"
	"time"

	"github.com/tomtom215/coursepath/internal/middleware"
	"github.com/tomtom215/coursepath/internal/recommend"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/studentstore"
)

// Recommender is the engine surface used by the handlers.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Algorithms() []string
	GetStatus() recommend.TrainingStatus
	GetMetrics() recommend.Metrics
	ListModels(ctx context.Context) ([]storage.ModelMetadata, error)
	IsReady() bool
	InvalidateStudent(degreeID string, studentID int)
}

// StudentStore is the student record surface used by the handlers.
// *studentstore.Store implements it.
type StudentStore interface {
	SaveStudent(ctx context.Context, item *studentstore.StudentItem) error
	GetStudent(ctx context.Context, degreeID string, studentID int) (*studentstore.StudentItem, error)
	ListStudentsPage(ctx context.Context, degreeID string, limit int, token string) ([]studentstore.StudentItem, string, error)
	GetPlan(ctx context.Context, degreeID string, studentID int) (*studentstore.StudentItem, error)
	EditPlan(ctx context.Context, degreeID string, studentID int, updates []map[string]any) (*studentstore.StudentItem, error)
	GetLogs(ctx context.Context, degreeID string, studentID int, filter studentstore.LogFilter) (*studentstore.LogsResult, error)
	Ping(ctx context.Context) error
}

// CatalogStore is the subject catalog surface used by the handlers.
// *studentstore.Store implements it.
type CatalogStore interface {
	PutSubject(ctx context.Context, item *studentstore.SubjectItem) error
	GetSubject(ctx context.Context, code string) (*studentstore.SubjectItem, error)
	ListSubjects(ctx context.Context) ([]studentstore.SubjectItem, error)
	PutRequirements(ctx context.Context, item *studentstore.RequirementsItem) error
	GetSubjectDetails(ctx context.Context, degreeID, code string) (*studentstore.SubjectDetails, error)
	KeyCourses(ctx context.Context, degreeID string) ([]string, error)
	PutDegree(ctx context.Context, item *studentstore.DegreeItem) error
	GetDegree(ctx context.Context, degreeID string) (*studentstore.DegreeItem, error)
}

// TrainingTrigger starts a training run in the background. The scheduled
// training service implements it.
type TrainingTrigger interface {
	Trigger(algorithm, degreeID string) error
}

// BreakerState reports the student store circuit breaker state.
type BreakerState interface {
	State() string
}

// HandlerConfig holds request defaults.
type HandlerConfig struct {
	// DefaultDegreeID is used when a request names no degree.
	DefaultDegreeID string

	// DefaultPageSize is the student listing page size when no limit is given.
	DefaultPageSize int
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: inference and engine status
//   - handlers_models.go: artifact listing and manual training
//   - handlers_students.go: student records, plans and recommendation logs
//   - handlers_catalog.go: subject catalog, requirements and degree plans
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	engine    Recommender
	store     StudentStore
	catalog   CatalogStore
	trainer   TrainingTrigger
	breaker   BreakerState
	perfMon   *middleware.PerformanceMonitor
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates the API handler. trainer may be nil, in which case the
// training endpoint answers 503.
func NewHandler(engine Recommender, store StudentStore, trainer TrainingTrigger, cfg HandlerConfig) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 100
	}
	return &Handler{
		engine:    engine,
		store:     store,
		trainer:   trainer,
		perfMon:   middleware.NewPerformanceMonitor(1000),
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetCatalog enables the subject catalog endpoints. Without it they answer
// 503.
func (h *Handler) SetCatalog(c CatalogStore) {
	h.catalog = c
}

// SetBreakerState exposes the store circuit breaker in the status endpoint.
func (h *Handler) SetBreakerState(b BreakerState) {
	h.breaker = b
}

// PerformanceMonitor returns the monitor fed by the router.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// degreeOrDefault returns degreeID, or the configured default when empty.
func (h *Handler) degreeOrDefault(degreeID string) string {
	if degreeID == "" {
		return h.config.DefaultDegreeID
	}
	return degreeID
}
