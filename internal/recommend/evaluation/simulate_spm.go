// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// BaselineMode selects how the SPM simulation estimates the GPA a student
// would earn without recommendations.
type BaselineMode string

const (
	// BaselineGlobal uses the adoption-weighted mean of course averages.
	BaselineGlobal BaselineMode = "global"

	// BaselinePrefix uses the next items of the student's longest matching
	// patterns, weighted by next support, and falls back to global.
	BaselinePrefix BaselineMode = "prefix"
)

// ParseBaselineMode accepts "global" or "prefix" in any case.
func ParseBaselineMode(s string) (BaselineMode, error) {
	switch m := BaselineMode(strings.ToLower(strings.TrimSpace(s))); m {
	case BaselineGlobal, BaselinePrefix:
		return m, nil
	case "":
		return BaselineGlobal, nil
	default:
		return "", fmt.Errorf("unknown baseline mode %q", s)
	}
}

// SPMSimulationConfig configures an SPM cohort simulation.
type SPMSimulationConfig struct {
	CohortSize   int
	K            int
	BaselineMode BaselineMode
}

// SPMSimulation is the outcome of an SPM cohort simulation.
type SPMSimulation struct {
	GPABase    float64 `json:"gpa_base"`
	GPASim     float64 `json:"gpa_sim"`
	NEffective int     `json:"n_effective"`
}

// SimulateSPM takes the first cfg.CohortSize non-empty sequences and compares
// a baseline GPA against the mean course average of the top-k candidates the
// ranker offers each student. Only students with candidates count toward the
// simulated mean; the baseline is averaged over the same number of students.
// With no effective student both values equal the mean baseline.
func SimulateSPM(ctx context.Context, db []records.TermSequence, ranker *algorithms.SPMRanker, stats algorithms.CourseStats, cfg SPMSimulationConfig) (SPMSimulation, error) {
	if len(db) == 0 || ranker.PatternCount() == 0 {
		return SPMSimulation{}, nil
	}

	global := stats.AdoptionWeightedGPA()
	base := make([]float64, 0, min(len(db), max(cfg.CohortSize, 0)))
	sim := make([]float64, 0, cap(base))

	for _, seq := range db {
		if cfg.CohortSize > 0 && len(base) >= cfg.CohortSize {
			break
		}
		if seq.Len() == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return SPMSimulation{}, err
		}

		b := global
		if cfg.BaselineMode == BaselinePrefix {
			if v, ok := ranker.ExpectedNextGPA(seq); ok {
				b = v
			}
		}
		base = append(base, b)

		_, recs := ranker.Candidates(seq)
		if cfg.K > 0 && len(recs) > cfg.K {
			recs = recs[:cfg.K]
		}
		if len(recs) == 0 {
			continue
		}
		grades := make([]float64, len(recs))
		for i, r := range recs {
			grades[i] = stats[r.Subject].AvgGrade
		}
		sim = append(sim, stat.Mean(grades, nil))
	}

	nEff := len(sim)
	if nEff == 0 {
		g := global
		if len(base) > 0 {
			g = records.Round(stat.Mean(base, nil), 3)
		}
		return SPMSimulation{GPABase: g, GPASim: g}, nil
	}

	return SPMSimulation{
		GPABase:    records.Round(stat.Mean(base[:nEff], nil), 3),
		GPASim:     records.Round(stat.Mean(sim, nil), 3),
		NEffective: nEff,
	}, nil
}

// SPMGrid lists the supports explored by TuneSPM and the fixed settings of
// each run.
type SPMGrid struct {
	Supports         []float64
	MinSupportNext   float64
	MaxPatternLength int
	Simulation       SPMSimulationConfig
}

// SPMTuningRow is the simulated outcome of one support value.
type SPMTuningRow struct {
	Support       float64 `json:"support"`
	NEffective    int     `json:"n_effective"`
	GPABase       float64 `json:"gpa_base"`
	GPASim        float64 `json:"gpa_sim"`
	Delta         float64 `json:"delta"`
	TotalPatterns int     `json:"total_patterns"`
}

// TuneSPM mines the database once per support value and simulates the
// resulting patterns. Rows are ranked by delta descending, then effective
// cohort descending, then support ascending; the first row is the
// recommended configuration.
func TuneSPM(ctx context.Context, db []records.TermSequence, stats algorithms.CourseStats, grid SPMGrid, logger zerolog.Logger) ([]SPMTuningRow, error) {
	rows := make([]SPMTuningRow, 0, len(grid.Supports))

	for _, sup := range grid.Supports {
		miner := algorithms.NewMiner(algorithms.MinerConfig{
			MinSupport:       sup,
			MinSupportNext:   grid.MinSupportNext,
			MaxPatternLength: grid.MaxPatternLength,
		})
		patterns, err := miner.Mine(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("mine at support %v: %w", sup, err)
		}

		ranker := algorithms.NewSPMRanker(patterns, stats, nil)
		res, err := SimulateSPM(ctx, db, ranker, stats, grid.Simulation)
		if err != nil {
			return nil, err
		}

		row := SPMTuningRow{
			Support:       sup,
			NEffective:    res.NEffective,
			GPABase:       res.GPABase,
			GPASim:        res.GPASim,
			Delta:         records.Round(res.GPASim-res.GPABase, 3),
			TotalPatterns: len(patterns),
		}
		rows = append(rows, row)

		logger.Debug().
			Float64("support", sup).
			Int("n_effective", row.NEffective).
			Float64("gpa_base", row.GPABase).
			Float64("gpa_sim", row.GPASim).
			Float64("delta", row.Delta).
			Int("total_patterns", row.TotalPatterns).
			Msg("spm tuning row")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}
		if a.NEffective != b.NEffective {
			return a.NEffective > b.NEffective
		}
		return a.Support < b.Support
	})

	if len(rows) > 0 {
		best := rows[0]
		logger.Info().
			Float64("support", best.Support).
			Int("n_effective", best.NEffective).
			Float64("gpa_base", best.GPABase).
			Float64("gpa_sim", best.GPASim).
			Float64("delta", best.Delta).
			Int("total_patterns", best.TotalPatterns).
			Msg("best spm configuration")
	}

	return rows, nil
}
