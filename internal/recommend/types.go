// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/records"
)

// AlgorithmAll selects every registered algorithm for training.
const AlgorithmAll = "all"

// Request represents a recommendation request.
type Request struct {
	// Algorithm is the strategy to use (pm or spm).
	Algorithm string `json:"algorithm"`

	// StudentID is the student to generate recommendations for.
	StudentID int `json:"student_id"`

	// DegreeID is the degree program. Defaults to Config.DegreeID if empty.
	DegreeID string `json:"degree_id,omitempty"`

	// K is the number of recommendations to return.
	// Defaults to the top_k the artifact was trained with if zero.
	K int `json:"k,omitempty"`

	// MinSim overrides the PM similarity threshold of the artifact.
	MinSim *float64 `json:"min_sim,omitempty"`

	// MinMatchedLen is the shortest SPM pattern match accepted. Defaults to 1.
	MinMatchedLen int `json:"min_matched_len,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response represents a recommendation response.
type Response struct {
	Algorithm    string         `json:"algorithm"`
	ModelVersion int            `json:"model_version"`
	DegreeID     string         `json:"degree_id"`
	StudentID    int            `json:"student_id"`
	Params       map[string]any `json:"params"`

	// Recommendations is []algorithms.PMRecommendation or
	// []algorithms.SPMRecommendation depending on the algorithm.
	Recommendations any `json:"recommendations"`

	// SimilarPeers is set by PM.
	SimilarPeers []algorithms.SimilarPeer `json:"similar_peers,omitempty"`

	// MatchedPatternLength is set by SPM.
	MatchedPatternLength *int `json:"matched_pattern_length,omitempty"`

	// Message explains an empty recommendation list.
	Message string `json:"message,omitempty"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`

	subjects []string
}

// Subjects returns the recommended course codes in rank order.
func (r *Response) Subjects() []string {
	return r.subjects
}

// clone returns a copy safe to hand out from the cache.
func (r *Response) clone() *Response {
	out := *r
	out.subjects = append([]string(nil), r.subjects...)
	out.SimilarPeers = append([]algorithms.SimilarPeer(nil), r.SimilarPeers...)
	params := make(map[string]any, len(r.Params))
	for k, v := range r.Params {
		params[k] = v
	}
	out.Params = params
	return &out
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// TrainedAt is when the model in use was trained.
	TrainedAt time.Time `json:"trained_at"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// DataProvider supplies student records for training and inference.
// It is typically implemented by the student store.
type DataProvider interface {
	// GetStudent returns one student. found is false when no record exists.
	GetStudent(ctx context.Context, degreeID string, studentID int) (student records.Student, found bool, err error)

	// ListStudents returns every student of a degree.
	ListStudents(ctx context.Context, degreeID string) ([]records.Student, error)
}

// KeyCourseSource supplies the prerequisite courses of a degree that SPM
// results flag and promote.
type KeyCourseSource interface {
	KeyCourses(ctx context.Context, degreeID string) ([]string, error)
}

// RecommendationLogger records served recommendations.
type RecommendationLogger interface {
	LogRecommendation(ctx context.Context, degreeID string, studentID int, algorithm string, params map[string]any, subjects []string) error
}

// ArtifactStore persists trained models. *storage.Store implements it.
type ArtifactStore interface {
	NextVersion(name string) int
	Save(ctx context.Context, name string, version int, data any, meta storage.ModelMetadata) error
	Load(ctx context.Context, name string, version int, target any) (*storage.ModelMetadata, error)
	ListModels(ctx context.Context) ([]storage.ModelMetadata, error)
	Prune(ctx context.Context, name string, keepVersions int) error
}

// Algorithm trains and restores one recommendation strategy.
type Algorithm interface {
	// Name returns the algorithm identifier (pm, spm).
	Name() string

	// Train builds a model from the whole population of one degree.
	Train(ctx context.Context, degreeID string, students []records.Student) (Model, error)

	// Restore loads the latest stored artifact under name.
	Restore(ctx context.Context, store ArtifactStore, name string) (Model, *storage.ModelMetadata, error)
}

// Model is a trained artifact ready for inference. Implementations must be
// safe for concurrent use and never change after creation.
type Model interface {
	// Recommend ranks next courses for one student. The returned response
	// carries the algorithm-specific fields; the engine fills in the rest.
	Recommend(ctx context.Context, student records.Student, req Request) (*Response, error)

	// Artifact returns the value persisted to the artifact store.
	Artifact() any

	// Counts returns population sizes recorded in the artifact metadata.
	Counts() map[string]int
}

// TrainResult describes one trained and published model.
type TrainResult struct {
	Algorithm  string         `json:"algorithm"`
	Name       string         `json:"name"`
	Version    int            `json:"version"`
	DegreeID   string         `json:"degree_id"`
	RunID      string         `json:"run_id"`
	Counts     map[string]int `json:"counts"`
	DurationMS int64          `json:"duration_ms"`
}

// ModelStatus describes a model held in memory.
type ModelStatus struct {
	Name      string         `json:"name"`
	Algorithm string         `json:"algorithm"`
	DegreeID  string         `json:"degree_id"`
	Version   int            `json:"version"`
	TrainedAt time.Time      `json:"trained_at"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// Progress is the training progress (0-100).
	Progress int `json:"progress"`

	// CurrentAlgorithm is the algorithm currently being trained.
	CurrentAlgorithm string `json:"current_algorithm,omitempty"`

	// DegreeID is the degree of the current or last run.
	DegreeID string `json:"degree_id,omitempty"`

	// LastTrainedAt is when training last completed.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last training took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// StudentCount is the number of students read by the last run.
	StudentCount int `json:"student_count"`

	// Models lists the models currently loaded, keyed by artifact name.
	Models map[string]ModelStatus `json:"models"`

	// NextScheduledTraining is when the next training is scheduled.
	NextScheduledTraining time.Time `json:"next_scheduled_training,omitempty"`
}

// Metrics contains recommendation system metrics for observability.
type Metrics struct {
	// RequestCount is the total number of recommendation requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// ErrorCount is the total number of errors.
	ErrorCount int64 `json:"error_count"`

	// EmptyCount is the number of responses without recommendations.
	EmptyCount int64 `json:"empty_count"`

	// TrainingCount is the number of training runs completed.
	TrainingCount int64 `json:"training_count"`

	// LastTrainingDurationMS is the duration of the last training.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// AlgorithmMetrics contains per-algorithm metrics.
	AlgorithmMetrics map[string]AlgorithmMetrics `json:"algorithm_metrics"`
}

// AlgorithmMetrics contains metrics for a single algorithm.
type AlgorithmMetrics struct {
	// Name is the algorithm name.
	Name string `json:"name"`

	// PredictionCount is the number of predictions made.
	PredictionCount int64 `json:"prediction_count"`

	// AveragePredictionTimeMS is the average prediction time.
	AveragePredictionTimeMS float64 `json:"average_prediction_time_ms"`

	// LastTrainedAt is when this algorithm was last trained.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// ModelSizeBytes is the size of the last loaded artifact.
	ModelSizeBytes int64 `json:"model_size_bytes"`
}
