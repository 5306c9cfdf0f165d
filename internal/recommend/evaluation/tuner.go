// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// PMGrid lists the thresholds explored by TunePM.
type PMGrid struct {
	GPAThresholds        []float64
	SimilarityThresholds []float64
	K                    int
	CohortSize           int
	Seed                 int64
}

// PMTuningRow is the simulated outcome of one (GPA, similarity) pair.
type PMTuningRow struct {
	GPAThreshold        float64 `json:"gpa_threshold"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	CohortSize          int     `json:"cohort_size"`
	BaselineAvgGPA      float64 `json:"baseline_avg_gpa"`
	SimulatedAvgGPA     float64 `json:"simulated_avg_gpa"`
	DeltaAvg            float64 `json:"delta_avg"`
}

// SuccessfulCohort returns the trajectories whose GPA reaches threshold.
func SuccessfulCohort(population []records.Trajectory, threshold float64) []records.Trajectory {
	out := make([]records.Trajectory, 0, len(population))
	for i := range population {
		if population[i].GPA >= threshold {
			out = append(out, population[i])
		}
	}
	return out
}

// TunePM simulates every grid point. The reference cohort and its course
// stats are rebuilt per GPA threshold; thresholds leaving no successful
// student are skipped. Rows are ordered by delta desc, cohort size desc,
// GPA threshold asc, then similarity threshold asc.
func TunePM(ctx context.Context, population []records.Trajectory, grid PMGrid, logger zerolog.Logger) ([]PMTuningRow, error) {
	rows := make([]PMTuningRow, 0, len(grid.GPAThresholds)*len(grid.SimilarityThresholds))

	for _, gpaThr := range grid.GPAThresholds {
		successful := SuccessfulCohort(population, gpaThr)
		if len(successful) == 0 {
			logger.Info().Float64("gpa_threshold", gpaThr).Msg("no successful students, skipping grid row")
			continue
		}
		stats := algorithms.ComputeCourseStats(successful)
		ranker := algorithms.NewPMRanker(successful, stats)

		for _, simThr := range grid.SimilarityThresholds {
			res, err := SimulatePM(ctx, population, ranker, stats, SimulationConfig{
				SimilarityThreshold: simThr,
				K:                   grid.K,
				CohortSize:          grid.CohortSize,
				Seed:                grid.Seed,
			})
			if err != nil {
				return nil, err
			}

			row := PMTuningRow{
				GPAThreshold:        records.Round(gpaThr, 3),
				SimilarityThreshold: records.Round(simThr, 3),
				CohortSize:          res.CohortSize,
				BaselineAvgGPA:      res.BaselineAvgGPA,
				SimulatedAvgGPA:     res.SimulatedAvgGPA,
				DeltaAvg:            res.DeltaAvg,
			}
			rows = append(rows, row)

			logger.Debug().
				Float64("gpa_threshold", row.GPAThreshold).
				Float64("similarity_threshold", row.SimilarityThreshold).
				Int("cohort_size", row.CohortSize).
				Float64("delta_avg", row.DeltaAvg).
				Msg("pm tuning row")
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.DeltaAvg != b.DeltaAvg {
			return a.DeltaAvg > b.DeltaAvg
		}
		if a.CohortSize != b.CohortSize {
			return a.CohortSize > b.CohortSize
		}
		if a.GPAThreshold != b.GPAThreshold {
			return a.GPAThreshold < b.GPAThreshold
		}
		return a.SimilarityThreshold < b.SimilarityThreshold
	})

	if len(rows) > 0 {
		best := rows[0]
		logger.Info().
			Float64("gpa_threshold", best.GPAThreshold).
			Float64("similarity_threshold", best.SimilarityThreshold).
			Int("cohort_size", best.CohortSize).
			Float64("baseline_avg_gpa", best.BaselineAvgGPA).
			Float64("simulated_avg_gpa", best.SimulatedAvgGPA).
			Float64("delta_avg", best.DeltaAvg).
			Msg("best pm configuration")
	}

	return rows, nil
}
