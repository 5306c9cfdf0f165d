// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRunLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rl := NewRunLoggerWithLogger(NewTestLogger(&buf), "2491")
	ctx := ContextWithCorrelationID(context.Background(), "run00001")

	rl.RunStarted(ctx, "all", "manual")
	rl.ModelPublished(ctx, "pm-2491", 3, map[string]int{"students_total": 120}, time.Second)
	rl.RunFailed(ctx, "spm", errors.New("no sequences"), time.Second)
	rl.RunSkipped(context.Background(), "in_progress")
	rl.RunCompleted(ctx, 1, 2*time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5: %s", len(lines), buf.String())
	}

	tests := []struct {
		line int
		want []string
	}{
		{0, []string{`"component":"training"`, `"degree_id":"2491"`, `"correlation_id":"run00001"`, `"trigger":"manual"`}},
		{1, []string{`"model":"pm-2491"`, `"version":3`, `"students_total":120`}},
		{2, []string{`"level":"error"`, `"error":"no sequences"`, `"algorithm":"spm"`}},
		{3, []string{`"level":"warn"`, `"reason":"in_progress"`}},
		{4, []string{`"models":1`, "training run completed"}},
	}
	for _, tt := range tests {
		for _, want := range tt.want {
			if !strings.Contains(lines[tt.line], want) {
				t.Errorf("line %d missing %q: %s", tt.line, want, lines[tt.line])
			}
		}
	}
	if strings.Contains(lines[3], "correlation_id") {
		t.Errorf("line 3 should not carry a correlation id: %s", lines[3])
	}
}
