// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/coursepath/internal/recommend/evaluation"
	"github.com/tomtom215/coursepath/internal/records"
)

func TestTrainPM(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	artifact, err := TrainPM(context.Background(), "2491", testStudents(), cfg.PM, cfg.Tuning, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("TrainPM() error = %v", err)
	}

	if artifact.SchemaVersion != PMSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", artifact.SchemaVersion, PMSchemaVersion)
	}
	if artifact.Counts.StudentsTotal != 5 || artifact.Counts.StudentsSuccessful != 3 {
		t.Errorf("Counts = %+v, want 5 total, 3 successful", artifact.Counts)
	}
	if len(artifact.SuccessfulStudents) != 3 {
		t.Errorf("SuccessfulStudents = %d, want 3", len(artifact.SuccessfulStudents))
	}
	if got := artifact.CourseStats["A"].Count; got != 3 {
		t.Errorf("A count = %d, want 3", got)
	}
	if _, ok := artifact.CourseStats["A"]; !ok {
		t.Error("course stats should cover A")
	}
	if artifact.Params.TopK != 5 || artifact.Params.SimilarityThreshold != 0.7 {
		t.Errorf("Params = %+v", artifact.Params)
	}
	// Students 1, 2, 3 and 5 have two or more terms.
	if artifact.Metrics.StudentsEvaluated != 4 {
		t.Errorf("StudentsEvaluated = %d, want 4", artifact.Metrics.StudentsEvaluated)
	}
	if len(artifact.Tuning) != 9 {
		t.Errorf("tuning rows = %d, want 9 (3 GPA x 3 similarity thresholds)", len(artifact.Tuning))
	}
}

func TestTrainPM_Preconditions(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	ctx := context.Background()

	tests := []struct {
		name     string
		students []records.Student
		pm       PMConfig
		wantErr  error
	}{
		{
			name:    "no students",
			pm:      cfg.PM,
			wantErr: ErrEmptyPopulation,
		},
		{
			name: "no approved courses",
			students: []records.Student{{ID: 1, Attempts: []records.RawAttempt{
				{Code: "A", Status: "REP"},
			}}},
			pm:      cfg.PM,
			wantErr: ErrEmptyPopulation,
		},
		{
			name:     "threshold nobody reaches",
			students: testStudents(),
			pm:       PMConfig{GPASuccessThreshold: 4.0, SimilarityThreshold: 0.7, TopK: 5},
			wantErr:  ErrNoSuccessfulStudents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := TrainPM(ctx, "2491", tt.students, tt.pm, cfg.Tuning, nil, zerolog.Nop())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("TrainPM() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrainSPM(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	artifact, err := TrainSPM(context.Background(), "2491", testStudents(), cfg.SPM, cfg.Tuning, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("TrainSPM() error = %v", err)
	}

	if artifact.Algorithm != "spm" || artifact.ModelType != ModelTypeSPM {
		t.Errorf("Algorithm/ModelType = %s/%s", artifact.Algorithm, artifact.ModelType)
	}
	// Students 3 and 4 have no grade >= 86.
	if artifact.Sequences != 3 {
		t.Errorf("Sequences = %d, want 3", artifact.Sequences)
	}
	if len(artifact.Patterns) == 0 {
		t.Fatal("expected mined patterns")
	}
	if first := artifact.Patterns[0]; len(first.Sequence) != 3 {
		t.Errorf("longest pattern = %v, want length 3 first", first.Sequence)
	}
	if got := artifact.CourseStats["C"].AvgGrade; got != 3.8 {
		t.Errorf("C avg grade = %v, want 3.8", got)
	}
	if got := artifact.CourseStats["A"].AdoptionRate; got != 1 {
		t.Errorf("A adoption = %v, want 1", got)
	}
	if artifact.Params.BaselineMode != evaluation.BaselineGlobal {
		t.Errorf("BaselineMode = %q, want global", artifact.Params.BaselineMode)
	}
	if len(artifact.TuningSimulation) != len(cfg.Tuning.SupportGrid) {
		t.Errorf("tuning rows = %d, want %d", len(artifact.TuningSimulation), len(cfg.Tuning.SupportGrid))
	}
	if artifact.TuningBest == nil {
		t.Fatal("TuningBest = nil, want best tuning row")
	}
	if *artifact.TuningBest != artifact.TuningSimulation[0] {
		t.Errorf("TuningBest = %+v, want first ranked row %+v", *artifact.TuningBest, artifact.TuningSimulation[0])
	}
	if artifact.PatternMetrics.TotalPatterns != len(artifact.Patterns) {
		t.Errorf("metrics total = %d, want %d", artifact.PatternMetrics.TotalPatterns, len(artifact.Patterns))
	}
}

func TestTrainSPM_Preconditions(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	ctx := context.Background()

	t.Run("no students", func(t *testing.T) {
		t.Parallel()
		_, err := TrainSPM(ctx, "2491", nil, cfg.SPM, cfg.Tuning, nil, zerolog.Nop())
		if !errors.Is(err, ErrEmptyPopulation) {
			t.Errorf("error = %v, want ErrEmptyPopulation", err)
		}
	})

	t.Run("filter keeps nothing", func(t *testing.T) {
		t.Parallel()
		spm := cfg.SPM
		spm.StatusesOK = []string{"EQV"}
		_, err := TrainSPM(ctx, "2491", testStudents(), spm, cfg.Tuning, nil, zerolog.Nop())
		if !errors.Is(err, ErrNoSequences) {
			t.Errorf("error = %v, want ErrNoSequences", err)
		}
	})

	t.Run("bad baseline mode", func(t *testing.T) {
		t.Parallel()
		spm := cfg.SPM
		spm.BaselineMode = "median"
		if _, err := TrainSPM(ctx, "2491", testStudents(), spm, cfg.Tuning, nil, zerolog.Nop()); err == nil {
			t.Error("expected error for unknown baseline mode")
		}
	})
}

func TestArtifactName(t *testing.T) {
	t.Parallel()

	if got := ArtifactName("pm", "2491"); got != "pm-2491" {
		t.Errorf("ArtifactName() = %q, want pm-2491", got)
	}
}
