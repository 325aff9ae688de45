package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var handled atomic.Int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		handled.Add(1)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(Job{Type: "noop"}))
	}
	require.Eventually(t, func() bool { return handled.Load() == 5 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return q.Stats().Processed == 5 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue("retry", func(ctx context.Context, job Job) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "flaky"}))
	require.Eventually(t, func() bool { return q.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
	require.EqualValues(t, 2, q.Stats().Retried)
}

func TestQueueRecoversPanics(t *testing.T) {
	q := NewQueue("panic", func(ctx context.Context, job Job) error {
		panic("boom")
	}, QueueConfig{MaxRetries: 0})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "explode"}))
	require.Eventually(t, func() bool { return q.Stats().Dropped == 1 }, time.Second, 5*time.Millisecond)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.Error(t, q.Enqueue(Job{}))
}
