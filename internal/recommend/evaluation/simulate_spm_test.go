// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// spmDB yields the patterns [A,B], [A] and [B] at 50% support. Only [A] has
// next items: B (confidence 2/3) and C (confidence 1/3).
func spmDB() []records.TermSequence {
	return []records.TermSequence{
		seq(term("A"), term("C")),
		seq(term("A"), term("B")),
		seq(term("A"), term("B")),
		seq(term("D")),
	}
}

func spmStats() algorithms.CourseStats {
	return algorithms.CourseStats{
		"A": {AvgGrade: 3.0, AdoptionRate: 0.75, Count: 3},
		"B": {AvgGrade: 4.0, AdoptionRate: 0.5, Count: 2},
		"C": {AvgGrade: 2.0, AdoptionRate: 0.25, Count: 1},
		"D": {AvgGrade: 3.0, AdoptionRate: 0.25, Count: 1},
	}
}

func minePatterns(t *testing.T, db []records.TermSequence, support float64) []algorithms.Pattern {
	t.Helper()
	patterns, err := algorithms.NewMiner(algorithms.MinerConfig{
		MinSupport:       support,
		MinSupportNext:   0.25,
		MaxPatternLength: 6,
	}).Mine(context.Background(), db)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	return patterns
}

func TestParseBaselineMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    BaselineMode
		wantErr bool
	}{
		{"global", BaselineGlobal, false},
		{" PREFIX ", BaselinePrefix, false},
		{"", BaselineGlobal, false},
		{"median", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBaselineMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBaselineMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBaselineMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimulateSPM(t *testing.T) {
	t.Parallel()

	db := spmDB()
	stats := spmStats()
	ranker := algorithms.NewSPMRanker(minePatterns(t, db, 0.5), stats, nil)

	tests := []struct {
		name string
		cfg  SPMSimulationConfig
		want SPMSimulation
	}{
		{
			name: "global baseline",
			cfg:  SPMSimulationConfig{CohortSize: 200, K: 4, BaselineMode: BaselineGlobal},
			want: SPMSimulation{GPABase: 3.143, GPASim: 4, NEffective: 1},
		},
		{
			name: "prefix baseline",
			cfg:  SPMSimulationConfig{CohortSize: 200, K: 4, BaselineMode: BaselinePrefix},
			want: SPMSimulation{GPABase: 3.333, GPASim: 4, NEffective: 1},
		},
		{
			name: "cohort capped at first sequence",
			cfg:  SPMSimulationConfig{CohortSize: 1, K: 4, BaselineMode: BaselineGlobal},
			want: SPMSimulation{GPABase: 3.143, GPASim: 4, NEffective: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SimulateSPM(context.Background(), db, ranker, stats, tt.cfg)
			if err != nil {
				t.Fatalf("SimulateSPM() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SimulateSPM() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSimulateSPM_NoEffectiveStudents(t *testing.T) {
	t.Parallel()

	db := []records.TermSequence{seq(term("A"), term("B")), seq(term("D"))}
	stats := spmStats()
	ranker := algorithms.NewSPMRanker(minePatterns(t, spmDB(), 0.5), stats, nil)

	got, err := SimulateSPM(context.Background(), db, ranker, stats, SPMSimulationConfig{CohortSize: 10, K: 4})
	if err != nil {
		t.Fatalf("SimulateSPM() error = %v", err)
	}
	want := SPMSimulation{GPABase: 3.143, GPASim: 3.143}
	if got != want {
		t.Errorf("SimulateSPM() = %+v, want %+v", got, want)
	}
}

func TestSimulateSPM_EmptyInputs(t *testing.T) {
	t.Parallel()

	stats := spmStats()
	empty := algorithms.NewSPMRanker(nil, stats, nil)
	full := algorithms.NewSPMRanker(minePatterns(t, spmDB(), 0.5), stats, nil)

	if got, _ := SimulateSPM(context.Background(), spmDB(), empty, stats, SPMSimulationConfig{K: 4}); got != (SPMSimulation{}) {
		t.Errorf("no patterns: SimulateSPM() = %+v, want zero", got)
	}
	if got, _ := SimulateSPM(context.Background(), nil, full, stats, SPMSimulationConfig{K: 4}); got != (SPMSimulation{}) {
		t.Errorf("no sequences: SimulateSPM() = %+v, want zero", got)
	}
}

func TestTuneSPM(t *testing.T) {
	t.Parallel()

	rows, err := TuneSPM(context.Background(), spmDB(), spmStats(), SPMGrid{
		Supports:         []float64{0.5, 0.9},
		MinSupportNext:   0.25,
		MaxPatternLength: 6,
		Simulation:       SPMSimulationConfig{CohortSize: 200, K: 4, BaselineMode: BaselineGlobal},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("TuneSPM() error = %v", err)
	}

	want := []SPMTuningRow{
		{Support: 0.5, NEffective: 1, GPABase: 3.143, GPASim: 4, Delta: 0.857, TotalPatterns: 3},
		{Support: 0.9},
	}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestTuneSPM_RankedByDelta(t *testing.T) {
	t.Parallel()

	rows, err := TuneSPM(context.Background(), spmDB(), spmStats(), SPMGrid{
		Supports:         []float64{0.95, 0.9, 0.5},
		MinSupportNext:   0.25,
		MaxPatternLength: 6,
		Simulation:       SPMSimulationConfig{CohortSize: 200, K: 4, BaselineMode: BaselineGlobal},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("TuneSPM() error = %v", err)
	}

	// Highest delta first; ties fall back to the lower support.
	want := []float64{0.5, 0.9, 0.95}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i, sup := range want {
		if rows[i].Support != sup {
			t.Errorf("rows[%d].Support = %v, want %v", i, rows[i].Support, sup)
		}
	}
	if rows[0].Delta != 0.857 {
		t.Errorf("best Delta = %v, want 0.857", rows[0].Delta)
	}
}
