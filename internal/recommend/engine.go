// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/cache"
	"github.com/tomtom215/coursepath/internal/metrics"
	"github.com/tomtom215/coursepath/internal/recommend/storage"
	"github.com/tomtom215/coursepath/internal/records"
)

// Engine trains recommendation models and serves inference from them.
// It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Registered algorithms by name
	algorithms map[string]Algorithm
	algMu      sync.RWMutex

	// Loaded models by artifact name
	models  map[string]*loadedModel
	modelMu sync.RWMutex

	// Training state. trainMu serializes runs; statusMu guards trainStatus.
	trainMu     sync.Mutex
	trainStatus TrainingStatus
	statusMu    sync.RWMutex

	// Metrics
	algMetrics    map[string]*algorithmCounters
	metricsMu     sync.Mutex
	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64
	emptyCount    atomic.Int64
	trainingCount atomic.Int64

	// Served responses by request key
	cache *cache.LRU[cacheEntry]

	// Collaborators
	dataProvider DataProvider
	recLogger    RecommendationLogger
	store        ArtifactStore
}

// loadedModel is a model together with the metadata it was published with.
type loadedModel struct {
	model Model
	meta  storage.ModelMetadata
}

// cacheEntry holds a cached recommendation response.
type cacheEntry struct {
	response  *Response
	degreeID  string
	studentID int
}

// algorithmCounters accumulates per-algorithm prediction metrics.
type algorithmCounters struct {
	predictions   int64
	totalLatency  time.Duration
	lastTrainedAt time.Time
	sizeBytes     int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "recommend").Logger(),
		algorithms:  make(map[string]Algorithm),
		models:      make(map[string]*loadedModel),
		algMetrics:  make(map[string]*algorithmCounters),
		cache:       cache.NewLRU[cacheEntry](cfg.Cache.MaxEntries, cfg.Cache.TTL),
		trainStatus: TrainingStatus{Models: make(map[string]ModelStatus)},
	}, nil
}

// SetDataProvider sets the data provider for training and prediction.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// SetRecommendationLogger sets where served recommendations are recorded.
func (e *Engine) SetRecommendationLogger(l RecommendationLogger) {
	e.recLogger = l
}

// SetArtifactStore sets where trained models are persisted.
func (e *Engine) SetArtifactStore(s ArtifactStore) {
	e.store = s
}

// RegisterAlgorithm adds an algorithm. A later registration replaces an
// earlier one with the same name.
func (e *Engine) RegisterAlgorithm(alg Algorithm) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.algorithms[alg.Name()] = alg
	e.logger.Info().
		Str("algorithm", alg.Name()).
		Msg("registered algorithm")
}

// Algorithms returns the registered algorithm names in sorted order.
func (e *Engine) Algorithms() []string {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	names := make([]string, 0, len(e.algorithms))
	for name := range e.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) algorithm(name string) (Algorithm, error) {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	alg, ok := e.algorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// Recommend ranks next courses for one student.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	alg, err := e.algorithm(req.Algorithm)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	if resp := e.tryGetCachedResponse(req, start, logger); resp != nil {
		e.logRecommendation(ctx, req, resp, logger)
		return resp, nil
	}

	if e.dataProvider == nil {
		e.errorCount.Add(1)
		return nil, ErrNoDataProvider
	}

	lm, err := e.modelFor(ctx, alg, req.DegreeID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	student, found, err := e.dataProvider.GetStudent(ctx, req.DegreeID, req.StudentID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("get student: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrStudentNotFound, req.StudentID)
	}

	predictCtx, cancel := context.WithTimeout(ctx, e.config.Limits.PredictionTimeout)
	defer cancel()

	resp, err := lm.model.Recommend(predictCtx, student, req)
	if err != nil {
		if !IsDataAbsence(err) {
			e.errorCount.Add(1)
			metrics.RecordRecommendation(req.Algorithm, time.Since(start), false, err)
		}
		return nil, err
	}

	resp.Algorithm = req.Algorithm
	resp.ModelVersion = lm.meta.Version
	resp.DegreeID = req.DegreeID
	resp.StudentID = req.StudentID
	resp.Metadata = ResponseMetadata{
		RequestID: req.RequestID,
		LatencyMS: time.Since(start).Milliseconds(),
		TrainedAt: lm.meta.TrainedAt,
		Timestamp: time.Now(),
	}
	if len(resp.subjects) == 0 {
		e.emptyCount.Add(1)
	}

	e.recordPrediction(req.Algorithm, time.Since(start))
	metrics.RecordRecommendation(req.Algorithm, time.Since(start), len(resp.subjects) == 0, nil)
	e.logRecommendation(ctx, req, resp, logger)
	e.cacheResponse(req, resp)

	logger.Debug().
		Int("returned", len(resp.subjects)).
		Int("model_version", resp.ModelVersion).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	req.Algorithm = strings.ToLower(strings.TrimSpace(req.Algorithm))
	req.DegreeID = strings.TrimSpace(req.DegreeID)
	if req.DegreeID == "" {
		req.DegreeID = e.config.DegreeID
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.K < 0 {
		req.K = 0
	}
	if req.K > e.config.Limits.MaxK {
		req.K = e.config.Limits.MaxK
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("algorithm", req.Algorithm).
		Str("degree_id", req.DegreeID).
		Int("student_id", req.StudentID).
		Logger()
}

// logRecommendation records a served response. Failures are logged and
// never fail the request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) logRecommendation(ctx context.Context, req Request, resp *Response, logger zerolog.Logger) {
	if e.recLogger == nil {
		return
	}
	if err := e.recLogger.LogRecommendation(ctx, req.DegreeID, req.StudentID, req.Algorithm, resp.Params, resp.subjects); err != nil {
		logger.Warn().Err(err).Msg("failed to record recommendation log")
	}
}

// modelFor returns the model of alg for degreeID, restoring it from the
// artifact store on first use.
func (e *Engine) modelFor(ctx context.Context, alg Algorithm, degreeID string) (*loadedModel, error) {
	name := ArtifactName(alg.Name(), degreeID)

	e.modelMu.RLock()
	lm, ok := e.models[name]
	e.modelMu.RUnlock()
	if ok {
		return lm, nil
	}

	if e.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotLoaded, name)
	}

	model, meta, err := alg.Restore(ctx, e.store, name)
	if err != nil {
		if errors.Is(err, storage.ErrModelNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotLoaded, name)
		}
		return nil, fmt.Errorf("restore %s: %w", name, err)
	}

	lm = &loadedModel{model: model, meta: *meta}
	e.modelMu.Lock()
	// A concurrent training run may have published a newer model meanwhile.
	if current, ok := e.models[name]; ok && current.meta.Version >= lm.meta.Version {
		lm = current
	} else {
		e.models[name] = lm
	}
	e.modelMu.Unlock()

	e.noteModel(alg.Name(), degreeID, lm)
	e.logger.Info().
		Str("model", name).
		Int("version", lm.meta.Version).
		Msg("restored model from artifact store")
	return lm, nil
}

// LoadLatest restores the latest artifact of every registered algorithm for
// degreeID. Missing artifacts are skipped.
func (e *Engine) LoadLatest(ctx context.Context, degreeID string) error {
	if degreeID == "" {
		degreeID = e.config.DegreeID
	}
	var errs []error
	for _, name := range e.Algorithms() {
		alg, err := e.algorithm(name)
		if err != nil {
			continue
		}
		if _, err := e.modelFor(ctx, alg, degreeID); err != nil {
			if errors.Is(err, ErrModelNotLoaded) {
				e.logger.Info().
					Str("algorithm", name).
					Str("degree_id", degreeID).
					Msg("no stored model yet")
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ListModels returns the metadata of every stored artifact. Without an
// artifact store it lists the models held in memory.
func (e *Engine) ListModels(ctx context.Context) ([]storage.ModelMetadata, error) {
	if e.store != nil {
		return e.store.ListModels(ctx)
	}

	e.modelMu.RLock()
	defer e.modelMu.RUnlock()

	out := make([]storage.ModelMetadata, 0, len(e.models))
	for _, lm := range e.models {
		out = append(out, lm.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Train trains the selected algorithm ("pm", "spm" or "all") for degreeID
// and publishes the resulting models. Returns immediately with
// ErrTrainingInProgress if another run is active.
//
// With "all", an algorithm that fails does not stop the others; the models
// that trained are still published and the errors are joined.
func (e *Engine) Train(ctx context.Context, algorithm, degreeID string) ([]TrainResult, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	if e.dataProvider == nil {
		return nil, ErrNoDataProvider
	}
	if degreeID == "" {
		degreeID = e.config.DegreeID
	}

	selected, err := e.selectAlgorithms(algorithm)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	e.initializeTrainingStatus(degreeID)
	e.logger.Info().
		Str("algorithm", algorithm).
		Str("degree_id", degreeID).
		Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	students, err := e.dataProvider.ListStudents(trainCtx, degreeID)
	if err != nil {
		err = fmt.Errorf("list students: %w", err)
		e.finalizeTrainingStatus(start, err)
		return nil, err
	}
	e.updateStatus(func(s *TrainingStatus) { s.StudentCount = len(students) })
	metrics.TrainingStudents.Set(float64(len(students)))

	e.logger.Info().
		Int("students", len(students)).
		Str("degree_id", degreeID).
		Msg("loaded training data")

	results := make([]TrainResult, 0, len(selected))
	var errs []error
	for i, alg := range selected {
		e.updateAlgorithmProgress(alg.Name(), i, len(selected))

		res, err := e.trainOne(trainCtx, alg, degreeID, students)
		if err != nil {
			e.logger.Error().
				Str("algorithm", alg.Name()).
				Err(err).
				Msg("algorithm training failed")
			errs = append(errs, fmt.Errorf("%s: %w", alg.Name(), err))
			continue
		}
		results = append(results, res)
	}

	err = errors.Join(errs...)
	e.finalizeTrainingStatus(start, err)

	if len(results) > 0 {
		e.trainingCount.Add(1)
		if e.config.Cache.InvalidateOnTrain {
			e.clearCache()
		}
	}

	e.logger.Info().
		Int("models", len(results)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("model training complete")

	return results, err
}

// selectAlgorithms resolves a training selector.
func (e *Engine) selectAlgorithms(selector string) ([]Algorithm, error) {
	selector = strings.ToLower(strings.TrimSpace(selector))
	if selector == "" || selector == AlgorithmAll {
		names := e.Algorithms()
		if len(names) == 0 {
			return nil, fmt.Errorf("no algorithms registered")
		}
		out := make([]Algorithm, 0, len(names))
		for _, name := range names {
			alg, err := e.algorithm(name)
			if err != nil {
				return nil, err
			}
			out = append(out, alg)
		}
		return out, nil
	}

	alg, err := e.algorithm(selector)
	if err != nil {
		return nil, err
	}
	return []Algorithm{alg}, nil
}

// trainOne trains, persists and publishes one model.
func (e *Engine) trainOne(ctx context.Context, alg Algorithm, degreeID string, students []records.Student) (TrainResult, error) {
	start := time.Now()
	name := ArtifactName(alg.Name(), degreeID)

	model, err := alg.Train(ctx, degreeID, students)
	if err != nil {
		metrics.RecordTraining(alg.Name(), name, 0, time.Since(start), err)
		return TrainResult{}, err
	}

	meta := storage.ModelMetadata{
		Name:               name,
		Algorithm:          alg.Name(),
		DegreeID:           degreeID,
		RunID:              uuid.NewString(),
		TrainedAt:          time.Now().UTC(),
		Counts:             model.Counts(),
		TrainingDurationMS: time.Since(start).Milliseconds(),
	}

	if e.store != nil {
		meta.Version = e.store.NextVersion(name)
		if err := e.store.Save(ctx, name, meta.Version, model.Artifact(), meta); err != nil {
			metrics.RecordTraining(alg.Name(), name, 0, time.Since(start), err)
			return TrainResult{}, fmt.Errorf("save artifact: %w", err)
		}
		if err := e.store.Prune(ctx, name, e.config.Training.RetainVersions); err != nil {
			e.logger.Warn().Err(err).Str("model", name).Msg("failed to prune old artifacts")
		}
	} else {
		e.modelMu.RLock()
		if current, ok := e.models[name]; ok {
			meta.Version = current.meta.Version + 1
		} else {
			meta.Version = 1
		}
		e.modelMu.RUnlock()
	}

	lm := &loadedModel{model: model, meta: meta}
	e.modelMu.Lock()
	e.models[name] = lm
	e.modelMu.Unlock()
	e.noteModel(alg.Name(), degreeID, lm)
	metrics.RecordTraining(alg.Name(), name, meta.Version, time.Since(start), nil)

	e.logger.Info().
		Str("model", name).
		Int("version", meta.Version).
		Str("run_id", meta.RunID).
		Int64("duration_ms", meta.TrainingDurationMS).
		Msg("published model")

	return TrainResult{
		Algorithm:  alg.Name(),
		Name:       name,
		Version:    meta.Version,
		DegreeID:   degreeID,
		RunID:      meta.RunID,
		Counts:     meta.Counts,
		DurationMS: meta.TrainingDurationMS,
	}, nil
}

// noteModel records a loaded model in the status and metrics.
func (e *Engine) noteModel(algorithm, degreeID string, lm *loadedModel) {
	e.updateStatus(func(s *TrainingStatus) {
		s.Models[lm.meta.Name] = ModelStatus{
			Name:      lm.meta.Name,
			Algorithm: algorithm,
			DegreeID:  degreeID,
			Version:   lm.meta.Version,
			TrainedAt: lm.meta.TrainedAt,
			Counts:    lm.meta.Counts,
		}
	})

	metrics.ModelVersion.WithLabelValues(lm.meta.Name).Set(float64(lm.meta.Version))

	e.metricsMu.Lock()
	c := e.countersLocked(algorithm)
	c.lastTrainedAt = lm.meta.TrainedAt
	c.sizeBytes = lm.meta.SizeBytes
	e.metricsMu.Unlock()
}

// updateStatus applies fn to the training status under its lock.
func (e *Engine) updateStatus(fn func(s *TrainingStatus)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.trainStatus)
}

// initializeTrainingStatus prepares the training status.
func (e *Engine) initializeTrainingStatus(degreeID string) {
	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = true
		s.Progress = 0
		s.LastError = ""
		s.DegreeID = degreeID
	})
}

// updateAlgorithmProgress updates the training progress for an algorithm.
func (e *Engine) updateAlgorithmProgress(algName string, current, total int) {
	progress := (current * 100) / total
	e.updateStatus(func(s *TrainingStatus) {
		s.CurrentAlgorithm = algName
		s.Progress = progress
	})

	e.logger.Debug().
		Str("algorithm", algName).
		Int("progress", progress).
		Msg("training algorithm")
}

// finalizeTrainingStatus updates the training status after completion.
func (e *Engine) finalizeTrainingStatus(start time.Time, err error) {
	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = false
		s.CurrentAlgorithm = ""
		s.LastTrainingDurationMS = time.Since(start).Milliseconds()
		if err != nil {
			s.LastError = err.Error()
			return
		}
		s.Progress = 100
		s.LastTrainedAt = time.Now()
	})
}

// SetNextScheduledTraining records when the scheduler will train next.
func (e *Engine) SetNextScheduledTraining(t time.Time) {
	e.updateStatus(func(s *TrainingStatus) { s.NextScheduledTraining = t })
}

// GetStatus returns the current training status.
func (e *Engine) GetStatus() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	status := e.trainStatus
	status.Models = make(map[string]ModelStatus, len(e.trainStatus.Models))
	for k, v := range e.trainStatus.Models {
		status.Models[k] = v
	}
	return status
}

// IsReady reports whether at least one model is loaded.
func (e *Engine) IsReady() bool {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return len(e.models) > 0
}

// recordPrediction updates per-algorithm prediction metrics.
func (e *Engine) recordPrediction(algorithm string, latency time.Duration) {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()

	c := e.countersLocked(algorithm)
	c.predictions++
	c.totalLatency += latency
}

// countersLocked returns the counters of an algorithm. Must be called with
// metricsMu held.
func (e *Engine) countersLocked(algorithm string) *algorithmCounters {
	c, ok := e.algMetrics[algorithm]
	if !ok {
		c = &algorithmCounters{}
		e.algMetrics[algorithm] = c
	}
	return c
}

// GetMetrics returns the current engine metrics.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount:     e.requestCount.Load(),
		CacheHits:        e.cacheHits.Load(),
		CacheMisses:      e.cacheMisses.Load(),
		ErrorCount:       e.errorCount.Load(),
		EmptyCount:       e.emptyCount.Load(),
		TrainingCount:    e.trainingCount.Load(),
		AlgorithmMetrics: make(map[string]AlgorithmMetrics),
	}

	e.statusMu.RLock()
	m.LastTrainingDurationMS = e.trainStatus.LastTrainingDurationMS
	e.statusMu.RUnlock()

	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	for name, c := range e.algMetrics {
		am := AlgorithmMetrics{
			Name:            name,
			PredictionCount: c.predictions,
			LastTrainedAt:   c.lastTrainedAt,
			ModelSizeBytes:  c.sizeBytes,
		}
		if c.predictions > 0 {
			am.AveragePredictionTimeMS = float64(c.totalLatency.Microseconds()) / float64(c.predictions) / 1000
		}
		m.AlgorithmMetrics[name] = am
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// cacheKey generates a cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	minSim := "-"
	if req.MinSim != nil {
		minSim = strconv.FormatFloat(*req.MinSim, 'f', -1, 64)
	}
	return fmt.Sprintf("rec:%s:%s:%d:%d:%s:%d",
		req.Algorithm, req.DegreeID, req.StudentID, req.K, minSim, req.MinMatchedLen)
}

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(req Request, start time.Time, logger zerolog.Logger) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	resp := e.checkCache(e.cacheKey(req))
	if resp == nil {
		e.cacheMisses.Add(1)
		metrics.RecordRecommendationCache(false)
		return nil
	}

	e.cacheHits.Add(1)
	metrics.RecordRecommendationCache(true)
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	logger.Debug().Msg("cache hit")
	return resp
}

// checkCache returns a copy of a valid cached response, or nil.
func (e *Engine) checkCache(key string) *Response {
	entry, ok := e.cache.Get(key)
	if !ok {
		return nil
	}
	return entry.response.clone()
}

// cacheResponse stores the response in cache if enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(req Request, resp *Response) {
	if !e.config.Cache.Enabled {
		return
	}
	e.cache.Add(e.cacheKey(req), cacheEntry{
		response:  resp.clone(),
		degreeID:  req.DegreeID,
		studentID: req.StudentID,
	})
}

// InvalidateStudent drops cached responses of one student, typically after
// the student's record changed.
func (e *Engine) InvalidateStudent(degreeID string, studentID int) {
	e.cache.RemoveFunc(func(_ string, entry cacheEntry) bool {
		return entry.degreeID == degreeID && entry.studentID == studentID
	})
}

// clearCache removes all cached entries.
func (e *Engine) clearCache() {
	e.cache.Clear()
	e.logger.Debug().Msg("cache cleared")
}
