package lock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("timed out waiting for worker lock")

// WorkerLocker serializes clock operations of a single worker.
type WorkerLocker interface {
	// Lock blocks until the worker's lock is held or ctx is done.
	// The returned unlock func must be called exactly once.
	Lock(ctx context.Context, workerID string) (func(), error)
}
