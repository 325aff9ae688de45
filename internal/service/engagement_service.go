package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/repository"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

type engagementStore interface {
	IncrementView(ctx context.Context, id string, at time.Time) (int64, error)
	AddRating(ctx context.Context, id string, rating int, at time.Time) (*models.RatingResult, error)
	IncrementCounter(ctx context.Context, id string, counter repository.EngagementCounter, at time.Time) (int64, error)
}

type visitorTracker interface {
	AddVisitor(ctx context.Context, key, member string) (bool, error)
}

// EngagementService applies public engagement to published submissions.
// Every write is a single atomic statement in the store.
type EngagementService struct {
	repo     engagementStore
	visitors visitorTracker
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngagementService constructs the service. visitors may be nil.
func NewEngagementService(repo engagementStore, visitors visitorTracker, metrics *MetricsService, logger *zap.Logger) *EngagementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{
		repo:     repo,
		visitors: visitors,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RecordView adds one view and, for first-time visitors, one unique visitor. It returns the new view count.
func (s *EngagementService) RecordView(ctx context.Context, id, visitorKey string) (int64, error) {
	views, err := s.repo.IncrementView(ctx, id, s.now())
	if err != nil {
		return 0, engagementError(err, "failed to record view")
	}
	s.metrics.RecordEngagement("view")

	visitorKey = strings.TrimSpace(visitorKey)
	if visitorKey == "" || s.visitors == nil {
		return views, nil
	}
	isNew, err := s.visitors.AddVisitor(ctx, CacheKey("visitors", id), visitorKey)
	if err != nil {
		s.logger.Warn("unique visitor tracking failed", zap.String("submission_id", id), zap.Error(err))
		return views, nil
	}
	if isNew {
		if _, err := s.repo.IncrementCounter(ctx, id, repository.CounterUniqueVisitors, s.now()); err != nil {
			s.logger.Warn("unique visitor increment failed", zap.String("submission_id", id), zap.Error(err))
		}
	}
	return views, nil
}

// AddRating folds a 1-5 rating into the running average.
func (s *EngagementService) AddRating(ctx context.Context, id string, rating int) (*models.RatingResult, error) {
	if rating < 1 || rating > 5 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "rating must be between 1 and 5",
			map[string]interface{}{"rating": rating})
	}
	result, err := s.repo.AddRating(ctx, id, rating, s.now())
	if err != nil {
		return nil, engagementError(err, "failed to record rating")
	}
	s.metrics.RecordEngagement("rating")
	return result, nil
}

// RecordFavorite adds one favorite and returns the new count.
func (s *EngagementService) RecordFavorite(ctx context.Context, id string) (int64, error) {
	return s.increment(ctx, id, repository.CounterFavorites, "favorite")
}

// RecordShare adds one share and returns the new count.
func (s *EngagementService) RecordShare(ctx context.Context, id string) (int64, error) {
	return s.increment(ctx, id, repository.CounterShares, "share")
}

func (s *EngagementService) increment(ctx context.Context, id string, counter repository.EngagementCounter, kind string) (int64, error) {
	value, err := s.repo.IncrementCounter(ctx, id, counter, s.now())
	if err != nil {
		return 0, engagementError(err, "failed to record "+kind)
	}
	s.metrics.RecordEngagement(kind)
	return value, nil
}

func engagementError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "submission not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
