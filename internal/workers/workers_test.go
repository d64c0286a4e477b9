// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"testing"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Start and Stop were called.
type mockWorker struct {
	id       int
	startErr error
	events   *[]string

	startCount int
	stopCount  int
}

func (m *mockWorker) Start(_ context.Context) error {
	m.startCount++
	if m.events != nil {
		*m.events = append(*m.events, "start", string(rune('0'+m.id)))
	}
	return m.startErr
}

func (m *mockWorker) Stop() {
	m.stopCount++
	if m.events != nil {
		*m.events = append(*m.events, "stop", string(rune('0'+m.id)))
	}
}

func TestWorkers_Start_AllWorkersAreStarted(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	if err := ws.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.startCount != 1 {
			t.Errorf("worker[%d]: expected startCount=1, got %d", i, w.startCount)
		}
	}
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	if err := ws.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws.Stop()
}

func TestWorkers_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	if err := ws.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws.Stop()
}

func TestWorkers_StopReverseOrder(t *testing.T) {
	var events []string
	ws := NewWorkers(
		&mockWorker{id: 1, events: &events},
		&mockWorker{id: 2, events: &events},
		&mockWorker{id: 3, events: &events},
	)

	if err := ws.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws.Stop()

	expected := []string{"start", "1", "start", "2", "start", "3", "stop", "3", "stop", "2", "stop", "1"}
	if len(events) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, events)
	}
	for i, v := range expected {
		if events[i] != v {
			t.Errorf("expected events[%d]=%s, got %s", i, v, events[i])
		}
	}
}

func TestWorkers_StartFailureStopsStarted(t *testing.T) {
	boom := errors.New("boom")
	w1 := &mockWorker{}
	w2 := &mockWorker{startErr: boom}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	err := ws.Start(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if w1.stopCount != 1 {
		t.Errorf("expected started worker to be stopped, got stopCount=%d", w1.stopCount)
	}
	if w2.stopCount != 0 {
		t.Errorf("failed worker must not be stopped, got stopCount=%d", w2.stopCount)
	}
	if w3.startCount != 0 {
		t.Errorf("worker after failure must not start, got startCount=%d", w3.startCount)
	}
}

func TestWorkers_StopTwice(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(w)

	if err := ws.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ws.Stop()
	ws.Stop()

	if w.stopCount != 1 {
		t.Errorf("expected stopCount=1 after two Stop calls, got %d", w.stopCount)
	}
}
