package async

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorQueue_RunsEveryJob(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[int]bool{}
	)
	q := NewProcessorQueue(func(_ context.Context, job Job) {
		mu.Lock()
		seen[job.Index] = true
		mu.Unlock()
	}, nil, WithWorkers(3), WithQueueSize(2))

	for i := 0; i < 20; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: "f", Index: i}))
	}
	q.Shutdown(context.Background())

	assert.Len(t, seen, 20)
}

func TestProcessorQueue_AppliesTimeout(t *testing.T) {
	var deadlines atomic.Int32
	q := NewProcessorQueue(func(ctx context.Context, _ Job) {
		if _, ok := ctx.Deadline(); ok {
			deadlines.Add(1)
		}
		<-ctx.Done()
	}, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "slow"}))
	q.Shutdown(context.Background())

	assert.Equal(t, int32(1), deadlines.Load())
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(func(context.Context, Job) {}, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Path: "late"}), ErrQueueClosed)
}

func TestProcessorQueue_EnqueueHonoursContext(t *testing.T) {
	release := make(chan struct{})
	q := NewProcessorQueue(func(context.Context, Job) { <-release }, nil,
		WithWorkers(1), WithQueueSize(1), WithProcessTimeout(time.Minute))

	require.NoError(t, q.Enqueue(context.Background(), Job{Index: 1})) // picked up by the worker
	// Fill the buffer once the worker is busy.
	require.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		return q.Enqueue(ctx, Job{Index: 2}) == nil
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Enqueue(ctx, Job{Index: 3}), context.DeadlineExceeded)

	close(release)
	q.Shutdown(context.Background())
}

func TestProcessorQueue_ShutdownInterrupted(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	q := NewProcessorQueue(func(context.Context, Job) { <-release }, nil,
		WithWorkers(1), WithProcessTimeout(time.Minute))
	require.NoError(t, q.Enqueue(context.Background(), Job{}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	start := time.Now()
	q.Shutdown(ctx)
	assert.Less(t, time.Since(start), time.Second)
}
