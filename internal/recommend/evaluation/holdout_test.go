// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

func holdoutPopulation() []records.Trajectory {
	return []records.Trajectory{
		trajectory(1, 3.8, seq(term("A"), term("B"), term("C"))),
		trajectory(2, 3.8, seq(term("A"), term("B"), term("D"))),
		trajectory(3, 3.0, seq(term("A"), term("B"), term("C"))),
		trajectory(4, 3.0, seq(term("A"), term("B"), term("D"))),
		trajectory(5, 3.0, seq(term("A"), term("B"), term("E"))),
		trajectory(6, 3.0, seq(term("X"), term("Y"), term("Z"))),
		trajectory(7, 3.0, seq(term("A"))),
		trajectory(8, 3.0, seq(term("A"), term("B"))),
		trajectory(9, 3.0, seq(term("B"), term("A"), term("C"))),
		trajectory(10, 3.0, seq(term("A"), term("C"))),
	}
}

func TestHoldout(t *testing.T) {
	t.Parallel()

	population := holdoutPopulation()
	successful := SuccessfulCohort(population, 3.6)
	if len(successful) != 2 {
		t.Fatalf("len(SuccessfulCohort) = %d, want 2", len(successful))
	}
	ranker := algorithms.NewPMRanker(successful, algorithms.ComputeCourseStats(successful))

	m, err := Holdout(context.Background(), population, ranker, HoldoutConfig{
		SimilarityThreshold: 0.7,
		K:                   1,
		GPASuccessThreshold: 3.6,
	})
	if err != nil {
		t.Fatalf("Holdout() error = %v", err)
	}

	counts := []struct {
		name      string
		got, want int
	}{
		{"TP", m.TP, 1},
		{"FP", m.FP, 2},
		{"TN", m.TN, 5},
		{"FN", m.FN, 1},
		{"StudentsEvaluated", m.StudentsEvaluated, 9},
		{"StudentsWithRecommendations", m.StudentsWithRecommendations, 7},
		{"StudentsWithSimilarPeers", m.StudentsWithSimilarPeers, 7},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	rates := []struct {
		name      string
		got, want float64
	}{
		{"HitRateAtK", m.HitRateAtK, 0.3333},
		{"Accuracy", m.Accuracy, 0.6667},
		{"Precision", m.Precision, 0.3333},
		{"Recall", m.Recall, 0.5},
		{"F1", m.F1, 0.4},
	}
	for _, r := range rates {
		if !approx(r.got, r.want) {
			t.Errorf("%s = %v, want %v", r.name, r.got, r.want)
		}
	}
}

func TestHoldout_NoEligibleStudents(t *testing.T) {
	t.Parallel()

	population := []records.Trajectory{trajectory(1, 4, seq(term("A")))}
	ranker := algorithms.NewPMRanker(population, algorithms.ComputeCourseStats(population))

	m, err := Holdout(context.Background(), population, ranker, HoldoutConfig{SimilarityThreshold: 0.7, K: 5, GPASuccessThreshold: 3.6})
	if err != nil {
		t.Fatalf("Holdout() error = %v", err)
	}
	if m != (HoldoutMetrics{}) {
		t.Errorf("Holdout() = %+v, want zero metrics", m)
	}
}

func TestHoldout_ContextCanceled(t *testing.T) {
	t.Parallel()

	population := holdoutPopulation()
	ranker := algorithms.NewPMRanker(population, algorithms.ComputeCourseStats(population))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Holdout(ctx, population, ranker, HoldoutConfig{SimilarityThreshold: 0.7, K: 1, GPASuccessThreshold: 3.6})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Holdout() error = %v, want context.Canceled", err)
	}
}
