// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/coursepath/internal/middleware"
)

// RouterConfig configures the HTTP surface.
type RouterConfig struct {
	// Middleware configures CORS and rate limiting.
	Middleware *ChiMiddlewareConfig

	// RequestTimeout bounds every API request. Zero disables the timeout.
	RequestTimeout time.Duration

	// MaxBodyBytes caps request bodies. Zero disables the limit.
	MaxBodyBytes int64
}

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg.Middleware),
		config:        cfg,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.handler.perfMon.Middleware)
	r.Use(AccessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(MaxBodyBytes(router.config.MaxBodyBytes))
		if router.config.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(router.config.RequestTimeout))
		}

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(middleware.Compression)
			r.Get("/status", router.handler.Status)
			r.Post("/{algorithm}", router.handler.Recommend)
		})

		r.Get("/models", router.handler.ListModels)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitTrain)).
			Post("/models/{algorithm}/train", router.handler.TriggerTraining)

		write := router.chiMiddleware.RateLimitCustom(RateLimitWrite)

		r.Route("/subjects", func(r chi.Router) {
			r.With(middleware.Compression).Get("/", router.handler.ListSubjects)
			r.Get("/{code}", router.handler.GetSubject)
			r.With(write).Put("/{code}", router.handler.PutSubject)
		})

		r.Route("/degrees/{degreeID}", func(r chi.Router) {
			r.Get("/", router.handler.GetDegree)
			r.With(write).Put("/", router.handler.PutDegree)
			r.Get("/key-courses", router.handler.GetKeyCourses)

			r.Route("/subjects/{code}", func(r chi.Router) {
				r.Get("/", router.handler.GetSubjectDetails)
				r.With(write).Put("/requirements", router.handler.PutRequirements)
			})

			r.Route("/students", func(r chi.Router) {
				r.With(middleware.Compression).Get("/", router.handler.ListStudents)

				r.Route("/{studentID}", func(r chi.Router) {
					r.Get("/", router.handler.GetStudent)
					r.With(write).Put("/", router.handler.PutStudent)
					r.With(middleware.Compression).Get("/logs", router.handler.GetLogs)
					r.Get("/plan", router.handler.GetPlan)
					r.With(write).Put("/plan", router.handler.EditPlan)
				})
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
