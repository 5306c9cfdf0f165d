// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService is a suture.Service that fails a configured number of times
// and then runs until canceled.
type mockService struct {
	name       string
	starts     atomic.Int32
	failures   atomic.Int32
	failBudget int32
}

func newMockService(name string, failBudget int32) *mockService {
	return &mockService{name: name, failBudget: failBudget}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failures.Add(1) <= m.failBudget {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) startCount() int32 { return m.starts.Load() }

func (m *mockService) String() string { return m.name }
