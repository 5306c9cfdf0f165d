// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// maxSimulationDetails caps the per-student rows kept in a simulation result.
const maxSimulationDetails = 20

// DefaultSeed seeds cohort sampling when none is configured.
const DefaultSeed int64 = 42

// SimulationConfig configures a PM cohort simulation.
type SimulationConfig struct {
	SimilarityThreshold float64
	K                   int
	CohortSize          int
	Seed                int64
}

// StudentSimulation is one student's baseline and simulated next-term GPA.
type StudentSimulation struct {
	StudentID    int     `json:"student_id"`
	BaselineGPA  float64 `json:"baseline_next_gpa"`
	SimulatedGPA float64 `json:"simulated_next_gpa"`
	Delta        float64 `json:"delta"`
}

// PMSimulation summarizes a PM cohort simulation.
type PMSimulation struct {
	CohortSize      int                 `json:"cohort_size"`
	BaselineAvgGPA  float64             `json:"baseline_avg_gpa"`
	SimulatedAvgGPA float64             `json:"simulated_avg_gpa"`
	DeltaAvg        float64             `json:"delta_avg"`
	Details         []StudentSimulation `json:"details"`
}

// SimulatePM compares, for each student with two or more terms, the GPA
// earned in the real last term against the GPA expected from following the
// recommendations made from the earlier terms.
//
// The number of accepted recommendations is capped at the real term's course
// load. A recommended course is expected to earn the student's own grade if
// they have one, else the course average, else the mean of all course
// averages. Students without a graded last term or without recommendations
// are skipped. When more students qualify than cfg.CohortSize, a seeded
// sample is taken.
func SimulatePM(ctx context.Context, population []records.Trajectory, ranker *algorithms.PMRanker, stats algorithms.CourseStats, cfg SimulationConfig) (PMSimulation, error) {
	overall := stats.OverallAvgGrade()
	eligible := make([]StudentSimulation, 0)

	for i := range population {
		if err := ctx.Err(); err != nil {
			return PMSimulation{}, err
		}

		s := &population[i]
		if s.Terms.Len() < 2 {
			continue
		}
		history := s.Terms[:s.Terms.Len()-1]
		realNext := s.Terms[s.Terms.Len()-1]

		baseline, ok := termGPA(realNext, s.Grades)
		if !ok {
			continue
		}

		recs := ranker.RankByFrequency(history, cfg.K, cfg.SimilarityThreshold)
		if len(recs) == 0 {
			continue
		}
		accepted := recs[:min(cfg.K, len(realNext), len(recs))]
		if len(accepted) == 0 {
			continue
		}

		expected := make([]float64, len(accepted))
		for j, c := range accepted {
			expected[j] = expectedGPA(c, s.Grades, stats, overall)
		}
		simulated := records.Round(stat.Mean(expected, nil), 3)

		eligible = append(eligible, StudentSimulation{
			StudentID:    s.StudentID,
			BaselineGPA:  baseline,
			SimulatedGPA: simulated,
			Delta:        records.Round(simulated-baseline, 3),
		})
	}

	if cfg.CohortSize > 0 && len(eligible) > cfg.CohortSize {
		eligible = sample(eligible, cfg.CohortSize, cfg.Seed)
	}
	if len(eligible) == 0 {
		return PMSimulation{Details: []StudentSimulation{}}, nil
	}

	base := make([]float64, len(eligible))
	sim := make([]float64, len(eligible))
	for i, e := range eligible {
		base[i] = e.BaselineGPA
		sim[i] = e.SimulatedGPA
	}
	baseAvg := records.Round(stat.Mean(base, nil), 3)
	simAvg := records.Round(stat.Mean(sim, nil), 3)

	details := eligible
	if len(details) > maxSimulationDetails {
		details = details[:maxSimulationDetails]
	}

	return PMSimulation{
		CohortSize:      len(eligible),
		BaselineAvgGPA:  baseAvg,
		SimulatedAvgGPA: simAvg,
		DeltaAvg:        records.Round(simAvg-baseAvg, 3),
		Details:         details,
	}, nil
}

// termGPA averages the student's grades over the codes of one term that have
// a grade, 3 decimals.
func termGPA(codes []string, grades map[string]float64) (float64, bool) {
	vals := make([]float64, 0, len(codes))
	for _, c := range codes {
		if g, ok := grades[c]; ok {
			vals = append(vals, g)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	return records.Round(stat.Mean(vals, nil), 3), true
}

func expectedGPA(code string, own map[string]float64, stats algorithms.CourseStats, overall float64) float64 {
	if g, ok := own[code]; ok {
		return g
	}
	if st, ok := stats[code]; ok {
		return st.AvgGrade
	}
	return overall
}

// sample draws n rows without replacement using a seeded source. Rows keep
// the order in which they were drawn.
func sample(rows []StudentSimulation, n int, seed int64) []StudentSimulation {
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible sampling, not security
	perm := rng.Perm(len(rows))
	out := make([]StudentSimulation, n)
	for i := 0; i < n; i++ {
		out[i] = rows[perm[i]]
	}
	return out
}
