package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/pkg/jobs"
)

type capturePublisher struct {
	mu       sync.Mutex
	messages []interface{}
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return p.err
}

type failingQueue struct{ calls int }

func (q *failingQueue) Enqueue(jobs.Job) error {
	q.calls++
	return errors.New("queue full")
}

type captureQueue struct{ jobs []jobs.Job }

func (q *captureQueue) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func TestEventServiceInvalidatesFeedForPublicChanges(t *testing.T) {
	cases := []struct {
		eventType  models.SubmissionEventType
		invalidate bool
	}{
		{models.EventSubmissionPublished, true},
		{models.EventSubmissionDeleted, true},
		{models.EventSubmissionSubmitted, false},
		{models.EventSubmissionReviewed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.eventType), func(t *testing.T) {
			store := newMemoryCache()
			cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
			publisher := &capturePublisher{}
			svc := NewEventService(publisher, cache, nil, zap.NewNop())

			svc.Dispatch(context.Background(), models.SubmissionEvent{Type: tc.eventType, SubmissionID: "sub-1"})

			require.Len(t, publisher.messages, 1)
			if tc.invalidate {
				assert.Equal(t, []string{"exhibit:feed:*"}, store.deleted)
			} else {
				assert.Empty(t, store.deleted)
			}
		})
	}
}

func TestEventServiceQueuesWhenAvailable(t *testing.T) {
	publisher := &capturePublisher{}
	queue := &captureQueue{}
	svc := NewEventService(publisher, nil, nil, zap.NewNop())
	svc.UseQueue(queue)

	event := models.SubmissionEvent{Type: models.EventSubmissionSubmitted, SubmissionID: "sub-1"}
	svc.Dispatch(context.Background(), event)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, submissionEventJob, queue.jobs[0].Type)
	assert.Empty(t, publisher.messages)

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	require.Len(t, publisher.messages, 1)
	assert.Equal(t, event, publisher.messages[0])
}

func TestEventServiceFallsBackInlineWhenQueueRejects(t *testing.T) {
	publisher := &capturePublisher{}
	queue := &failingQueue{}
	svc := NewEventService(publisher, nil, nil, zap.NewNop())
	svc.UseQueue(queue)

	svc.Dispatch(context.Background(), models.SubmissionEvent{Type: models.EventSubmissionDeleted, SubmissionID: "sub-1"})

	assert.Equal(t, 1, queue.calls)
	assert.Len(t, publisher.messages, 1)
}

func TestEventServiceHandleJobRejectsUnknownPayload(t *testing.T) {
	svc := NewEventService(&capturePublisher{}, nil, nil, zap.NewNop())

	err := svc.HandleJob(context.Background(), jobs.Job{Type: submissionEventJob, Payload: "not an event"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected payload")
}

func TestEventServicePublisherFailureIsCounted(t *testing.T) {
	metrics := NewMetricsService()
	publisher := &capturePublisher{err: errors.New("nsqd unreachable")}
	svc := NewEventService(publisher, nil, metrics, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.Dispatch(context.Background(), models.SubmissionEvent{Type: models.EventSubmissionReviewed, SubmissionID: "sub-1"})
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.events.WithLabelValues(string(models.EventSubmissionReviewed), "error")))

	err := svc.HandleJob(context.Background(), jobs.Job{Type: submissionEventJob, Payload: models.SubmissionEvent{Type: models.EventSubmissionReviewed}})
	require.Error(t, err)
}

func TestNilEventServiceDispatchIsNoop(t *testing.T) {
	var svc *EventService
	assert.NotPanics(t, func() {
		svc.Dispatch(context.Background(), models.SubmissionEvent{Type: models.EventSubmissionPublished})
	})
}

func TestEventServiceCountsFeedInvalidationFailures(t *testing.T) {
	metrics := NewMetricsService()
	store := newMemoryCache()
	store.deleteErr = errors.New("redis: connection refused")
	publisher := &capturePublisher{}
	svc := NewEventService(publisher, NewCacheService(store, nil, time.Minute, zap.NewNop(), true), metrics, zap.NewNop())

	svc.Dispatch(context.Background(), models.SubmissionEvent{Type: models.EventSubmissionPublished, SubmissionID: "sub-1"})

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.invalidations.WithLabelValues("error")))
	assert.Len(t, publisher.messages, 1)

	store.deleteErr = nil
	svc.Dispatch(context.Background(), models.SubmissionEvent{Type: models.EventSubmissionDeleted, SubmissionID: "sub-2"})
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.invalidations.WithLabelValues("ok")))
}
