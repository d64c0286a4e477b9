// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// starting and stopping multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's background loop and returns once it is
// running; the loop ends when ctx is done or Stop is called. Stop blocks
// until the loop has exited and is safe to call on a stopped worker.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Start(ctx context.Context) error {
//	    // spawn background processing
//	    return nil
//	}
//
//	func (w *MyWorker) Stop() {}
type Worker interface {
	Start(ctx context.Context) error
	Stop()
}
