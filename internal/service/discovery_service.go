package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/exhibit-api/internal/dto"
	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

const feedCacheSegment = "feed"

type publicStore interface {
	ListPublic(ctx context.Context, filter models.PublicFeedFilter) ([]models.Submission, int, error)
	GetPublic(ctx context.Context, id string) (*models.Submission, error)
}

type viewRecorder interface {
	RecordView(ctx context.Context, id, visitorKey string) (int64, error)
}

type feedPage struct {
	Items []models.Submission `json:"items"`
	Total int                 `json:"total"`
}

// DiscoveryService builds the public feed of published submissions.
type DiscoveryService struct {
	repo        publicStore
	views       viewRecorder
	cache       *CacheService
	ttl         time.Duration
	defaultSize int
	maxSize     int
	logger      *zap.Logger
}

// NewDiscoveryService constructs the feed builder. cache may be nil.
func NewDiscoveryService(repo publicStore, views viewRecorder, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DiscoveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryService{
		repo:        repo,
		views:       views,
		cache:       cache,
		ttl:         ttl,
		defaultSize: 10,
		maxSize:     100,
		logger:      logger,
	}
}

// ListPublic returns one ranked page of public submissions.
func (s *DiscoveryService) ListPublic(ctx context.Context, query dto.PublicFeedQuery) ([]models.Submission, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.PageSize
	if size <= 0 {
		size = s.defaultSize
	}
	if size > s.maxSize {
		size = s.maxSize
	}
	filter := models.PublicFeedFilter{FeaturedOnly: query.Featured, Page: page, PageSize: size}

	var result feedPage
	key := CacheKey(feedCacheSegment, page, size, query.Featured)
	err := s.cache.Remember(ctx, key, s.ttl, &result, func(ctx context.Context) error {
		items, total, err := s.repo.ListPublic(ctx, filter)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Review = nil
		}
		result = feedPage{Items: items, Total: total}
		return nil
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list public submissions")
	}
	if result.Items == nil {
		result.Items = []models.Submission{}
	}
	return result.Items, models.NewPagination(page, size, result.Total), nil
}

// ViewPublic returns a public submission and counts the view.
func (s *DiscoveryService) ViewPublic(ctx context.Context, id, visitorKey string) (*models.Submission, error) {
	submission, err := s.repo.GetPublic(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load public submission")
	}
	views, err := s.views.RecordView(ctx, id, visitorKey)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	submission.Metrics.Views = views
	submission.Metrics.LastViewedAt = &now
	submission.Review = nil
	return submission, nil
}
