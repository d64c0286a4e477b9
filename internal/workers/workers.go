package workers

import (
	"context"
	"fmt"
)

type Workers struct {
	workers []Worker
	started []Worker
}

// NewWorkers returns an aggregate over ws, started in order.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Start starts every worker in order. When one fails the ones already
// started are stopped again and the error is returned.
func (w *Workers) Start(ctx context.Context) error {
	for i, worker := range w.workers {
		if err := worker.Start(ctx); err != nil {
			w.Stop()
			return fmt.Errorf("start worker %d: %w", i, err)
		}
		w.started = append(w.started, worker)
	}
	return nil
}

// Stop stops the started workers in reverse order.
func (w *Workers) Stop() {
	for i := len(w.started) - 1; i >= 0; i-- {
		w.started[i].Stop()
	}
	w.started = nil
}
