package worker

import (
	"context"
)

// Worker is the contract all background workers satisfy.
type Worker interface {
	// Start runs the worker loop until the context is cancelled
	Start(ctx context.Context) error

	// Stop signals the worker to finish its current batch and exit
	Stop() error

	// Name identifies the worker in logs
	Name() string
}
