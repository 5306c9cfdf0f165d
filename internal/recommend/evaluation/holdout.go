// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// HoldoutConfig configures a last-term holdout run.
type HoldoutConfig struct {
	SimilarityThreshold float64
	K                   int
	GPASuccessThreshold float64
}

// HoldoutMetrics summarizes a holdout run.
type HoldoutMetrics struct {
	HitRateAtK float64 `json:"hit_rate_at_k"`
	Accuracy   float64 `json:"accuracy"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`

	TP int `json:"tp"`
	FP int `json:"fp"`
	TN int `json:"tn"`
	FN int `json:"fn"`

	StudentsEvaluated           int `json:"students_evaluated"`
	StudentsWithRecommendations int `json:"students_with_recommendations"`
	StudentsWithSimilarPeers    int `json:"students_with_similar_peers"`
}

// Holdout evaluates every student with at least two terms. The last term is
// hidden and the top-k frequency ranking from the reference ranker must hit
// at least one of its courses. A hit is compared against whether the student
// is truly successful (gpa >= threshold) to fill the confusion matrix.
func Holdout(ctx context.Context, population []records.Trajectory, ranker *algorithms.PMRanker, cfg HoldoutConfig) (HoldoutMetrics, error) {
	var m HoldoutMetrics
	hits := 0

	for i := range population {
		if err := ctx.Err(); err != nil {
			return HoldoutMetrics{}, err
		}

		s := &population[i]
		if s.Terms.Len() < 2 {
			continue
		}
		history := s.Terms[:s.Terms.Len()-1]
		hidden := s.Terms[s.Terms.Len()-1]

		if ranker.HasSimilarPeer(history, cfg.SimilarityThreshold) {
			m.StudentsWithSimilarPeers++
		}

		recs := ranker.RankByFrequency(history, cfg.K, cfg.SimilarityThreshold)
		if len(recs) > 0 {
			m.StudentsWithRecommendations++
		}

		m.StudentsEvaluated++
		predicted := intersects(recs, hidden)
		if predicted {
			hits++
		}

		successful := s.GPA >= cfg.GPASuccessThreshold
		switch {
		case predicted && successful:
			m.TP++
		case predicted:
			m.FP++
		case !successful:
			m.TN++
		default:
			m.FN++
		}
	}

	total := m.TP + m.TN + m.FP + m.FN
	precision := float64(m.TP) / float64(max(1, m.TP+m.FP))
	recall := float64(m.TP) / float64(max(1, m.TP+m.FN))

	m.HitRateAtK = records.Round(float64(hits)/float64(max(1, m.StudentsEvaluated)), 4)
	m.Accuracy = records.Round(float64(m.TP+m.TN)/float64(max(1, total)), 4)
	m.Precision = records.Round(precision, 4)
	m.Recall = records.Round(recall, 4)
	m.F1 = records.Round(2*precision*recall/max(1e-12, precision+recall), 4)

	return m, nil
}

func intersects(codes, term []string) bool {
	set := make(map[string]struct{}, len(term))
	for _, c := range term {
		set[c] = struct{}{}
	}
	for _, c := range codes {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}
