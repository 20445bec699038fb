package queue

import "errors"

// Sentinel kinds.
var (
	// ErrClosed indicates the queue no longer accepts jobs.
	ErrClosed = errors.New("queue closed")
)
