package async

import (
	"context"
	"time"
)

// Job is one file handed to the worker pool.
type Job struct {
	Path        string
	Index       int // position in the submitting batch
	SubmittedAt time.Time
	RequestID   string
}

// Handler processes one job. ctx carries the per-job timeout.
type Handler func(ctx context.Context, job Job)

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
