package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/pkg/jobs"
)

const submissionEventJob = "submission_event"

// EventPublisher delivers submission events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, message interface{}) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// LogPublisher writes events to the log when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher constructs a log-backed publisher.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements EventPublisher.
func (p *LogPublisher) Publish(_ context.Context, message interface{}) error {
	p.logger.Info("submission event", zap.Any("event", message))
	return nil
}

// EventService fans submission events out to the feed cache and the publisher.
type EventService struct {
	queue     jobQueue
	publisher EventPublisher
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEventService constructs the dispatcher. Attach a queue with UseQueue to deliver asynchronously.
func NewEventService(publisher EventPublisher, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = NewLogPublisher(logger)
	}
	return &EventService{publisher: publisher, cache: cache, metrics: metrics, logger: logger}
}

// UseQueue routes dispatched events through the worker queue.
func (s *EventService) UseQueue(queue jobQueue) {
	s.queue = queue
}

// Dispatch hands the event to the queue, or handles it inline without one.
// Delivery failures are logged and never surface to the caller.
func (s *EventService) Dispatch(ctx context.Context, event models.SubmissionEvent) {
	if s == nil {
		return
	}
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{Type: submissionEventJob, Payload: event})
		if err == nil {
			return
		}
		s.logger.Warn("event queue unavailable, delivering inline", zap.String("type", string(event.Type)), zap.Error(err))
	}
	if err := s.deliver(ctx, event); err != nil {
		s.logger.Warn("event delivery failed", zap.String("type", string(event.Type)), zap.String("submission_id", event.SubmissionID), zap.Error(err))
	}
}

// HandleJob is the worker queue handler for submission events.
func (s *EventService) HandleJob(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.SubmissionEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.Type)
	}
	return s.deliver(ctx, event)
}

func (s *EventService) deliver(ctx context.Context, event models.SubmissionEvent) error {
	if event.AffectsFeed() && s.cache.Enabled() {
		err := s.cache.Invalidate(ctx, CacheKey(feedCacheSegment, "*"))
		s.metrics.RecordFeedInvalidation(err)
		if err != nil {
			s.logger.Warn("feed cache left stale", zap.String("type", string(event.Type)), zap.String("submission_id", event.SubmissionID), zap.Error(err))
		}
	}
	err := s.publisher.Publish(ctx, event)
	s.metrics.RecordEvent(string(event.Type), err)
	return err
}
