// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package studentstore

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/coursepath/internal/recommend"
)

var (
	_ recommend.DataProvider         = (*BreakerProvider)(nil)
	_ recommend.RecommendationLogger = (*BreakerProvider)(nil)
	_ recommend.RecommendationLogger = (*Store)(nil)
	_ recommend.KeyCourseSource      = (*BreakerProvider)(nil)
)

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	}
}

func TestBreakerProvider_GetStudent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveStudent(ctx, &StudentItem{
		ID: 10, DegreeID: "2491",
		Subjects: []map[string]any{subject("MAT101", "APR", 92, 1)},
	}))

	p := NewBreakerProvider(s, testBreakerConfig("test-get"), zerolog.Nop())

	st, found, err := p.GetStudent(ctx, "2491", 10)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10, st.ID)
	assert.Len(t, st.Attempts, 1)

	_, found, err = p.GetStudent(ctx, "2491", 11)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBreakerProvider_ListStudents(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, s.SaveStudent(ctx, &StudentItem{ID: i, DegreeID: "2491"}))
	}

	p := NewBreakerProvider(s, testBreakerConfig("test-list"), zerolog.Nop())
	students, err := p.ListStudents(ctx, "2491")
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, 3, students[2].ID)
}

func TestBreakerProvider_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	p := NewBreakerProvider(s, testBreakerConfig("test-notfound"), zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, found, err := p.GetStudent(context.Background(), "2491", 500+i)
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, "closed", p.State())
}

func TestBreakerProvider_OpensOnFailures(t *testing.T) {
	t.Parallel()
	s, err := Open(Options{InMemory: true, Logger: zerolog.Nop()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	p := NewBreakerProvider(s, testBreakerConfig("test-open"), zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := p.GetStudent(ctx, "2491", 1)
		assert.ErrorIs(t, err, ErrStoreClosed)
	}
	assert.Equal(t, "open", p.State())

	_, err = p.ListStudents(ctx, "2491")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreakerProvider_LogRecommendation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	p := NewBreakerProvider(s, DefaultBreakerConfig(), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, p.LogRecommendation(ctx, "2491", 2, "pm", nil, []string{"MAT201"}))

	res, err := s.GetLogs(ctx, "2491", 2, LogFilter{})
	require.NoError(t, err)
	require.Len(t, res.Logs, 1)
	assert.Equal(t, []string{"MAT201"}, res.Logs[0].Subjects)
}

func TestBreakerProvider_KeyCourses(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.PutRequirements(ctx, &RequirementsItem{
		DegreeID:    "2491",
		SubjectCode: "FIS102",
		TotalRequirements: []RequirementGroup{
			{ID: "1", Min: 1, Subjects: []RequiredSubject{{Code: "fis101"}}},
		},
	}))

	p := NewBreakerProvider(s, testBreakerConfig("test-keys"), zerolog.Nop())
	keys, err := p.KeyCourses(ctx, "2491")
	require.NoError(t, err)
	assert.Equal(t, []string{"FIS101"}, keys)

	keys, err = p.KeyCourses(ctx, "3001")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
