// Package task provides a bounded in-memory queue with a pool of worker
// goroutines for background work that must not block request handling.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
