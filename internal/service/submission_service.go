package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/exhibit-api/internal/dto"
	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/repository"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
	"github.com/noah-isme/exhibit-api/pkg/export"
)

const metaDescriptionLimit = 160

type submissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id, organizationID string) (*models.Submission, error)
	ListByOrganization(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
	Update(ctx context.Context, submission *models.Submission, expected models.SubmissionStatus) error
	Transition(ctx context.Context, params repository.TransitionParams) error
	SoftDelete(ctx context.Context, id, organizationID, actorID string, expected models.SubmissionStatus, at time.Time) error
	StatusCounts(ctx context.Context, organizationID string) ([]models.StatusCount, error)
	EngagementTotals(ctx context.Context, organizationID string) (*models.EngagementTotals, error)
}

type historyStore interface {
	Append(ctx context.Context, entry *models.SubmissionHistory) error
	ListBySubmission(ctx context.Context, submissionID string) ([]models.SubmissionHistory, error)
}

type artifactChecker interface {
	Validate(ctx context.Context, organizationID string, ids []string) error
	Available(ctx context.Context, organizationID string) ([]models.CatalogArtifact, error)
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, event models.SubmissionEvent)
}

// SubmissionServiceConfig tunes paging and limits.
type SubmissionServiceConfig struct {
	DefaultPageSize   int
	MaxPageSize       int
	MaxArtifacts      int
	AvailableCacheTTL time.Duration
}

// SubmissionService runs the moderation workflow for exhibit submissions.
type SubmissionService struct {
	repo      submissionStore
	history   historyStore
	artifacts artifactChecker
	guard     *TransitionGuard
	validator *validator.Validate
	events    eventDispatcher
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       SubmissionServiceConfig
	now       func() time.Time
}

// SubmissionServiceOption configures the service.
type SubmissionServiceOption func(*SubmissionService)

// WithSubmissionEvents attaches the domain event dispatcher.
func WithSubmissionEvents(events eventDispatcher) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.events = events
	}
}

// WithSubmissionCache caches the available-artifacts listing.
func WithSubmissionCache(cache *CacheService) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.cache = cache
	}
}

// WithSubmissionMetrics records transition outcomes.
func WithSubmissionMetrics(metrics *MetricsService) SubmissionServiceOption {
	return func(s *SubmissionService) {
		s.metrics = metrics
	}
}

// WithSubmissionConfig overrides the default limits.
func WithSubmissionConfig(cfg SubmissionServiceConfig) SubmissionServiceOption {
	return func(s *SubmissionService) {
		if cfg.DefaultPageSize > 0 {
			s.cfg.DefaultPageSize = cfg.DefaultPageSize
		}
		if cfg.MaxPageSize > 0 {
			s.cfg.MaxPageSize = cfg.MaxPageSize
		}
		if cfg.MaxArtifacts > 0 {
			s.cfg.MaxArtifacts = cfg.MaxArtifacts
		}
		if cfg.AvailableCacheTTL > 0 {
			s.cfg.AvailableCacheTTL = cfg.AvailableCacheTTL
		}
	}
}

// WithSubmissionClock overrides the time source.
func WithSubmissionClock(now func() time.Time) SubmissionServiceOption {
	return func(s *SubmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSubmissionService constructs the service with defaults.
func NewSubmissionService(repo submissionStore, history historyStore, artifacts artifactChecker, guard *TransitionGuard, validate *validator.Validate, logger *zap.Logger, opts ...SubmissionServiceOption) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if guard == nil {
		guard = NewTransitionGuard(true)
	}
	RegisterSubmissionValidations(validate)
	svc := &SubmissionService{
		repo:      repo,
		history:   history,
		artifacts: artifacts,
		guard:     guard,
		validator: validate,
		logger:    logger,
		cfg: SubmissionServiceConfig{
			DefaultPageSize:   10,
			MaxPageSize:       100,
			MaxArtifacts:      200,
			AvailableCacheTTL: 5 * time.Minute,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// RegisterSubmissionValidations adds the enum tags used by submission payloads.
func RegisterSubmissionValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("submission_type", func(fl validator.FieldLevel) bool {
		return models.SubmissionType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("layout_mode", func(fl validator.FieldLevel) bool {
		return models.LayoutMode(fl.Field().String()).Valid()
	})
}

// Create stores a new PENDING submission for the caller's organization.
func (s *SubmissionService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	refs := toArtifactReferences(req.Artifacts)
	if err := s.checkArtifacts(ctx, orgID, refs); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		OrganizationID: orgID,
		SubmitterID:    scope.UserID,
		Title:          strings.TrimSpace(req.Title),
		Type:           req.Type,
		Description:    strings.TrimSpace(req.Description),
		Layout:         req.Layout,
		Theme:          toTheme(req.Theme),
		Accessibility:  req.Accessibility,
		Media:          toMedia(req.Media),
		Interactive:    toInteractive(req.Interactive),
		Artifacts:      refs,
		Status:         models.SubmissionStatusPending,
		Publishing:     models.PublishingRecord{Tags: []string{}},
		CreatedAt:      s.now(),
	}
	if submission.Layout == "" {
		submission.Layout = models.LayoutGrid
	}
	submission.SEO = deriveSEO(submission.Title, submission.Description, req.SEO)

	if err := s.repo.Create(ctx, submission); err != nil {
		s.metrics.RecordTransition(models.OperationCreate, "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create submission")
	}
	s.recordHistory(ctx, submission.ID, models.OperationCreate, nil, submission.Status, scope.UserID, nil)
	s.metrics.RecordTransition(models.OperationCreate, "ok")
	s.logger.Info("submission created",
		zap.String("submission_id", submission.ID),
		zap.String("organization_id", orgID),
		zap.Int("artifacts", len(refs)),
	)
	return submission, nil
}

// Get returns a single submission. Records outside the caller's organization read as not found.
func (s *SubmissionService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Submission, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id, readFilter(scope))
}

// List pages through the caller's organization submissions.
func (s *SubmissionService) List(ctx context.Context, claims *models.JWTClaims, query dto.SubmissionQuery) ([]models.Submission, *models.Pagination, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, nil, err
	}
	statuses, err := parseStatusFilter(query.Status)
	if err != nil {
		return nil, nil, err
	}
	page, size := s.normalizePage(query.Page, query.PageSize)
	submissions, total, err := s.repo.ListByOrganization(ctx, models.SubmissionFilter{
		OrganizationID: orgID,
		Statuses:       statuses,
		Page:           page,
		PageSize:       size,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	if submissions == nil {
		submissions = []models.Submission{}
	}
	return submissions, models.NewPagination(page, size, total), nil
}

// Update patches an editable submission. Editing a REJECTED submission moves it to RESUBMITTED.
func (s *SubmissionService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateSubmissionRequest) (*models.Submission, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	submission, err := s.load(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	current := submission.Status
	if err := s.guard.Check(models.OperationUpdate, current); err != nil {
		s.metrics.RecordTransition(models.OperationUpdate, "rejected")
		return nil, err
	}

	if req.Artifacts != nil {
		refs := toArtifactReferences(*req.Artifacts)
		if !sameArtifactSet(submission.ArtifactIDs(), artifactIDs(refs)) {
			if err := s.checkArtifacts(ctx, orgID, refs); err != nil {
				return nil, err
			}
		}
		submission.Artifacts = refs
	}
	applyPatch(submission, req)
	submission.Status = UpdateTarget(current)

	if err := s.repo.Update(ctx, submission, current); err != nil {
		return nil, s.writeFailure(ctx, err, id, orgID, models.OperationUpdate)
	}
	s.recordHistory(ctx, submission.ID, models.OperationUpdate, &current, submission.Status, scope.UserID, nil)
	s.metrics.RecordTransition(models.OperationUpdate, "ok")
	if submission.Status != current {
		s.dispatch(ctx, models.EventSubmissionResubmitted, submission, scope.UserID)
		s.logger.Info("submission resubmitted", zap.String("submission_id", submission.ID))
	}
	return submission, nil
}

// SubmitForReview moves a submission with at least one artifact into UNDER_REVIEW.
func (s *SubmissionService) SubmitForReview(ctx context.Context, claims *models.JWTClaims, id string) (*models.Submission, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, err
	}
	submission, err := s.load(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	current := submission.Status
	if err := s.guard.Check(models.OperationSubmitForReview, current); err != nil {
		s.metrics.RecordTransition(models.OperationSubmitForReview, "rejected")
		return nil, err
	}
	if len(submission.Artifacts) == 0 {
		s.metrics.RecordTransition(models.OperationSubmitForReview, "rejected")
		return nil, appErrors.Clone(appErrors.ErrEmptyContent, "add at least one artifact before submitting for review")
	}

	now := s.now()
	err = s.repo.Transition(ctx, repository.TransitionParams{
		ID:             id,
		OrganizationID: orgID,
		From:           current,
		To:             models.SubmissionStatusUnderReview,
		SubmittedAt:    &now,
		At:             now,

		RequireArtifacts: true,
	})
	if err != nil {
		return nil, s.writeFailure(ctx, err, id, orgID, models.OperationSubmitForReview)
	}
	submission.Status = models.SubmissionStatusUnderReview
	submission.SubmittedAt = &now
	submission.UpdatedAt = now
	s.afterTransition(ctx, submission, models.OperationSubmitForReview, current, scope.UserID, nil, models.EventSubmissionSubmitted)
	return submission, nil
}

// ApplyReview records an elevated caller's APPROVED or REJECTED decision.
func (s *SubmissionService) ApplyReview(ctx context.Context, claims *models.JWTClaims, id string, req dto.ReviewSubmissionRequest) (*models.Submission, error) {
	scope, err := s.elevatedScope(claims)
	if err != nil {
		return nil, err
	}
	req.Decision = models.SubmissionStatus(strings.ToUpper(strings.TrimSpace(string(req.Decision))))
	if err := s.validate(req); err != nil {
		return nil, err
	}
	decision, _ := ReviewTarget(req.Decision)
	reason := strings.TrimSpace(req.RejectionReason)
	if decision == models.SubmissionStatusRejected && reason == "" {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, "rejection_reason is required when rejecting",
			map[string]interface{}{"rejection_reason": "required"})
	}

	submission, err := s.load(ctx, id, "")
	if err != nil {
		return nil, err
	}
	current := submission.Status
	if err := s.guard.Check(models.OperationReview, current); err != nil {
		s.metrics.RecordTransition(models.OperationReview, "rejected")
		return nil, err
	}

	now := s.now()
	review := &models.ReviewRecord{
		ReviewerID: scope.UserID,
		ReviewedAt: now,
		Feedback:   strings.TrimSpace(req.Feedback),
		Rating:     req.Rating,
	}
	if decision == models.SubmissionStatusRejected {
		review.RejectionReason = &reason
	}
	err = s.repo.Transition(ctx, repository.TransitionParams{
		ID:     id,
		From:   current,
		To:     decision,
		Review: review,
		At:     now,
	})
	if err != nil {
		return nil, s.writeFailure(ctx, err, id, "", models.OperationReview)
	}
	submission.Status = decision
	submission.Review = review
	submission.UpdatedAt = now
	s.afterTransition(ctx, submission, models.OperationReview, current, scope.UserID, review.RejectionReason, models.EventSubmissionReviewed)
	return submission, nil
}

// Publish makes an APPROVED submission public.
func (s *SubmissionService) Publish(ctx context.Context, claims *models.JWTClaims, id string, req dto.PublishSubmissionRequest) (*models.Submission, error) {
	scope, err := s.elevatedScope(claims)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	submission, err := s.load(ctx, id, "")
	if err != nil {
		return nil, err
	}
	current := submission.Status
	if err := s.guard.Check(models.OperationPublish, current); err != nil {
		s.metrics.RecordTransition(models.OperationPublish, "rejected")
		return nil, err
	}

	now := s.now()
	tags := normalizeTags(req.Tags)
	err = s.repo.Transition(ctx, repository.TransitionParams{
		ID:   id,
		From: current,
		To:   models.SubmissionStatusPublished,
		Publish: &repository.PublishParams{
			PublishedBy: scope.UserID,
			Featured:    req.Featured,
			Tags:        tags,
		},
		At: now,
	})
	if err != nil {
		return nil, s.writeFailure(ctx, err, id, "", models.OperationPublish)
	}
	publisher := scope.UserID
	submission.Status = models.SubmissionStatusPublished
	submission.Publishing = models.PublishingRecord{
		PublishedAt: &now,
		PublishedBy: &publisher,
		IsPublic:    true,
		Featured:    req.Featured,
		Tags:        tags,
	}
	submission.UpdatedAt = now
	s.afterTransition(ctx, submission, models.OperationPublish, current, scope.UserID, nil, models.EventSubmissionPublished)
	return submission, nil
}

// Delete soft-deletes an editable submission.
func (s *SubmissionService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	scope, err := ResolveScope(claims)
	if err != nil {
		return err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return err
	}
	submission, err := s.load(ctx, id, orgID)
	if err != nil {
		return err
	}
	current := submission.Status
	if err := s.guard.Check(models.OperationDelete, current); err != nil {
		s.metrics.RecordTransition(models.OperationDelete, "rejected")
		return err
	}
	now := s.now()
	if err := s.repo.SoftDelete(ctx, id, orgID, scope.UserID, current, now); err != nil {
		return s.writeFailure(ctx, err, id, orgID, models.OperationDelete)
	}
	s.afterTransition(ctx, submission, models.OperationDelete, current, scope.UserID, nil, models.EventSubmissionDeleted)
	return nil
}

// History returns the status trail of a submission visible to the caller.
func (s *SubmissionService) History(ctx context.Context, claims *models.JWTClaims, id string) ([]models.SubmissionHistory, error) {
	if _, err := s.Get(ctx, claims, id); err != nil {
		return nil, err
	}
	entries, err := s.history.ListBySubmission(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission history")
	}
	if entries == nil {
		entries = []models.SubmissionHistory{}
	}
	return entries, nil
}

// AvailableArtifacts lists catalog artifacts the caller's organization may reference.
func (s *SubmissionService) AvailableArtifacts(ctx context.Context, claims *models.JWTClaims) ([]models.CatalogArtifact, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, err
	}
	var artifacts []models.CatalogArtifact
	err = s.cache.Remember(ctx, CacheKey("artifacts", orgID), s.cfg.AvailableCacheTTL, &artifacts, func(ctx context.Context) error {
		list, err := s.artifacts.Available(ctx, orgID)
		artifacts = list
		return err
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// OrganizationStats aggregates counts and engagement over the caller's organization.
func (s *SubmissionService) OrganizationStats(ctx context.Context, claims *models.JWTClaims) (*models.OrganizationStats, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return nil, err
	}
	orgID, err := ownerOrganization(scope)
	if err != nil {
		return nil, err
	}

	var (
		counts []models.StatusCount
		totals *models.EngagementTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.StatusCounts(gctx, orgID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.repo.EngagementTotals(gctx, orgID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate organization stats")
	}

	stats := &models.OrganizationStats{
		OrganizationID: orgID,
		ByStatus:       make(map[models.SubmissionStatus]int, len(models.SubmissionStatuses)),
		GeneratedAt:    s.now(),
	}
	for _, status := range models.SubmissionStatuses {
		stats.ByStatus[status] = 0
	}
	for _, row := range counts {
		stats.ByStatus[row.Status] += row.Count
		stats.Total += row.Count
	}
	stats.Published = stats.ByStatus[models.SubmissionStatusPublished]
	if totals != nil {
		stats.TotalViews = totals.TotalViews
		stats.TotalFavorites = totals.TotalFavorites
		stats.TotalShares = totals.TotalShares
		stats.RatedSubmissions = totals.RatedSubmissions
		stats.AverageRating = totals.AverageRating
	}
	return stats, nil
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportStats renders organization stats as CSV or PDF.
func (s *SubmissionService) ExportStats(ctx context.Context, claims *models.JWTClaims, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	stats, err := s.OrganizationStats(ctx, claims)
	if err != nil {
		return nil, err
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	body, err := renderer.Render(statsDataset(stats))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render stats export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("submission-stats-%s-%s.%s", stats.OrganizationID, stats.GeneratedAt.Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func statsDataset(stats *models.OrganizationStats) export.Dataset {
	rows := make([][]string, 0, len(models.SubmissionStatuses)+6)
	for _, status := range models.SubmissionStatuses {
		rows = append(rows, []string{"status_" + strings.ToLower(string(status)), fmt.Sprintf("%d", stats.ByStatus[status])})
	}
	rows = append(rows,
		[]string{"total", fmt.Sprintf("%d", stats.Total)},
		[]string{"total_views", fmt.Sprintf("%d", stats.TotalViews)},
		[]string{"total_favorites", fmt.Sprintf("%d", stats.TotalFavorites)},
		[]string{"total_shares", fmt.Sprintf("%d", stats.TotalShares)},
		[]string{"rated_submissions", fmt.Sprintf("%d", stats.RatedSubmissions)},
		[]string{"average_rating", fmt.Sprintf("%.1f", stats.AverageRating)},
	)
	return export.Dataset{
		Title:   fmt.Sprintf("Submission statistics for %s", stats.OrganizationID),
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}
}

func (s *SubmissionService) elevatedScope(claims *models.JWTClaims) (models.CallerScope, error) {
	scope, err := ResolveScope(claims)
	if err != nil {
		return scope, err
	}
	if !scope.Elevated {
		return models.CallerScope{}, appErrors.ErrForbidden
	}
	return scope, nil
}

func (s *SubmissionService) load(ctx context.Context, id, organizationID string) (*models.Submission, error) {
	submission, err := s.repo.GetByID(ctx, id, organizationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// writeFailure explains a failed compare-and-swap by re-reading the record.
func (s *SubmissionService) writeFailure(ctx context.Context, err error, id, organizationID string, op models.SubmissionOperation) error {
	if !errors.Is(err, sql.ErrNoRows) {
		s.metrics.RecordTransition(op, "error")
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to %s submission", strings.ReplaceAll(string(op), "_", " ")))
	}
	s.metrics.RecordTransition(op, "rejected")
	fresh, loadErr := s.load(ctx, id, organizationID)
	if loadErr != nil {
		return loadErr
	}
	if op == models.OperationSubmitForReview && s.guard.Allowed(op, fresh.Status) && len(fresh.Artifacts) == 0 {
		return appErrors.Clone(appErrors.ErrEmptyContent, "add at least one artifact before submitting for review")
	}
	if s.guard.Allowed(op, fresh.Status) {
		return appErrors.Clone(appErrors.ErrConflict, "submission was modified concurrently, retry the request")
	}
	return appErrors.InvalidTransition(string(fresh.Status), string(op))
}

func (s *SubmissionService) afterTransition(ctx context.Context, submission *models.Submission, op models.SubmissionOperation, from models.SubmissionStatus, actorID string, note *string, eventType models.SubmissionEventType) {
	to := submission.Status
	s.recordHistory(ctx, submission.ID, op, &from, to, actorID, note)
	s.metrics.RecordTransition(op, "ok")
	s.dispatch(ctx, eventType, submission, actorID)
	s.logger.Info("submission transitioned",
		zap.String("submission_id", submission.ID),
		zap.String("operation", string(op)),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_id", actorID),
	)
}

func (s *SubmissionService) recordHistory(ctx context.Context, submissionID string, op models.SubmissionOperation, from *models.SubmissionStatus, to models.SubmissionStatus, actorID string, note *string) {
	if s.history == nil {
		return
	}
	entry := &models.SubmissionHistory{
		SubmissionID: submissionID,
		Operation:    op,
		FromStatus:   from,
		ToStatus:     to,
		ActorID:      actorID,
		Note:         note,
		CreatedAt:    s.now(),
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to record submission history", zap.String("submission_id", submissionID), zap.Error(err))
	}
}

func (s *SubmissionService) dispatch(ctx context.Context, eventType models.SubmissionEventType, submission *models.Submission, actorID string) {
	if s.events == nil {
		return
	}
	s.events.Dispatch(ctx, models.SubmissionEvent{
		Type:           eventType,
		SubmissionID:   submission.ID,
		OrganizationID: submission.OrganizationID,
		Status:         submission.Status,
		ActorID:        actorID,
		OccurredAt:     s.now(),
	})
}

func (s *SubmissionService) checkArtifacts(ctx context.Context, organizationID string, refs []models.ArtifactReference) error {
	if len(refs) > s.cfg.MaxArtifacts {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("a submission may reference at most %d artifacts", s.cfg.MaxArtifacts))
	}
	return s.artifacts.Validate(ctx, organizationID, artifactIDs(refs))
}

func (s *SubmissionService) validate(payload interface{}) error {
	if err := s.validator.Struct(payload); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *SubmissionService) normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.cfg.DefaultPageSize
	}
	if size > s.cfg.MaxPageSize {
		size = s.cfg.MaxPageSize
	}
	return page, size
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return appErrors.WithDetails(appErrors.ErrValidation, "invalid payload", details)
}

func parseStatusFilter(raw string) ([]models.SubmissionStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var statuses []models.SubmissionStatus
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, ok := models.ParseSubmissionStatus(part)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", strings.TrimSpace(part)))
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func applyPatch(submission *models.Submission, req dto.UpdateSubmissionRequest) {
	if req.Title != nil {
		submission.Title = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		submission.Type = *req.Type
	}
	if req.Description != nil {
		submission.Description = strings.TrimSpace(*req.Description)
	}
	if req.Layout != nil {
		submission.Layout = *req.Layout
	}
	if req.Theme != nil {
		submission.Theme = toTheme(*req.Theme)
	}
	if req.Accessibility != nil {
		submission.Accessibility = *req.Accessibility
	}
	if req.Media != nil {
		submission.Media = toMedia(*req.Media)
	}
	if req.Interactive != nil {
		submission.Interactive = toInteractive(*req.Interactive)
	}
	switch {
	case req.SEO != nil:
		submission.SEO = deriveSEO(submission.Title, submission.Description, req.SEO)
	case submission.SEO.AutoDerived:
		keywords := submission.SEO.Keywords
		submission.SEO = deriveSEO(submission.Title, submission.Description, nil)
		submission.SEO.Keywords = keywords
	}
}

// deriveSEO fills meta title and description from the content when not supplied.
func deriveSEO(title, description string, req *dto.SEORequest) models.SEO {
	seo := models.SEO{Keywords: []string{}}
	if req != nil {
		seo.MetaTitle = strings.TrimSpace(req.MetaTitle)
		seo.MetaDescription = strings.TrimSpace(req.MetaDescription)
		seo.Keywords = normalizeTags(req.Keywords)
	}
	if seo.MetaTitle == "" {
		seo.MetaTitle = title
		seo.AutoDerived = true
	}
	if seo.MetaDescription == "" {
		seo.MetaDescription = truncateRunes(description, metaDescriptionLimit)
		seo.AutoDerived = true
	}
	return seo
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return strings.TrimSpace(string(runes[:limit]))
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func artifactIDs(refs []models.ArtifactReference) []string {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ArtifactID
	}
	return ids
}

func toArtifactReferences(reqs []dto.ArtifactReferenceRequest) []models.ArtifactReference {
	refs := make([]models.ArtifactReference, len(reqs))
	for i, req := range reqs {
		refs[i] = models.ArtifactReference{
			ArtifactID:        strings.TrimSpace(req.ArtifactID),
			DisplayOrder:      req.DisplayOrder,
			CustomDescription: strings.TrimSpace(req.CustomDescription),
			Featured:          req.Featured,
		}
	}
	return refs
}

func toTheme(req dto.ThemeRequest) models.Theme {
	return models.Theme{PrimaryColor: req.PrimaryColor, SecondaryColor: req.SecondaryColor, FontFamily: req.FontFamily}
}

func toMedia(req dto.MediaRequest) models.MediaRefs {
	return models.MediaRefs{
		BannerURL:          req.BannerURL,
		ThumbnailURL:       req.ThumbnailURL,
		BackgroundAudioURL: req.BackgroundAudioURL,
		IntroVideoURL:      req.IntroVideoURL,
	}
}

func toInteractive(req dto.InteractiveRequest) models.InteractiveContent {
	content := models.InteractiveContent{Has3D: req.Has3D, HasVR: req.HasVR, HasAR: req.HasAR}
	for _, m := range req.Models {
		content.Models = append(content.Models, models.ModelFile{
			ArtifactID:   m.ArtifactID,
			GeometryURL:  m.GeometryURL,
			TextureURL:   m.TextureURL,
			AnimationURL: m.AnimationURL,
			FileSize:     m.FileSize,
			Format:       m.Format,
		})
	}
	return content
}
