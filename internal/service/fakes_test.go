package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/repository"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

// memorySubmissionRepo mirrors the SQL repository semantics under a mutex.
type memorySubmissionRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]*models.Submission

	// raceTo, when set, rewrites the stored status right before the next guarded write.
	raceTo models.SubmissionStatus
	// raceEmptyArtifacts clears the stored artifacts right before the next guarded write.
	raceEmptyArtifacts bool
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{items: make(map[string]*models.Submission)}
}

func cloneSubmission(s *models.Submission) *models.Submission {
	c := *s
	c.Artifacts = append([]models.ArtifactReference(nil), s.Artifacts...)
	c.Publishing.Tags = append([]string(nil), s.Publishing.Tags...)
	c.SEO.Keywords = append([]string(nil), s.SEO.Keywords...)
	if s.Review != nil {
		review := *s.Review
		c.Review = &review
	}
	return &c
}

func (r *memorySubmissionRepo) put(s *models.Submission) *models.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		r.seq++
		s.ID = fmt.Sprintf("sub-%d", r.seq)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.items[s.ID] = cloneSubmission(s)
	return s
}

func (r *memorySubmissionRepo) stored(id string) *models.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.items[id]; ok {
		return cloneSubmission(s)
	}
	return nil
}

func (r *memorySubmissionRepo) live(id string) (*models.Submission, bool) {
	s, ok := r.items[id]
	if !ok || s.IsDeleted {
		return nil, false
	}
	return s, true
}

func (r *memorySubmissionRepo) applyRace(s *models.Submission) {
	if r.raceTo != "" {
		s.Status = r.raceTo
		r.raceTo = ""
	}
	if r.raceEmptyArtifacts {
		s.Artifacts = nil
		r.raceEmptyArtifacts = false
	}
}

func isPublic(s *models.Submission) bool {
	return s.Publishing.IsPublic && s.Status == models.SubmissionStatusPublished && !s.IsDeleted
}

func (r *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.UpdatedAt = submission.CreatedAt
	r.put(submission)
	return nil
}

func (r *memorySubmissionRepo) GetByID(_ context.Context, id, organizationID string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live(id)
	if !ok || (organizationID != "" && s.OrganizationID != organizationID) {
		return nil, sql.ErrNoRows
	}
	return cloneSubmission(s), nil
}

func (r *memorySubmissionRepo) ListByOrganization(_ context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Submission
	for _, s := range r.items {
		if s.IsDeleted || s.OrganizationID != filter.OrganizationID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, s.Status) {
			continue
		}
		matched = append(matched, *cloneSubmission(s))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission, expected models.SubmissionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live(submission.ID)
	if !ok || s.OrganizationID != submission.OrganizationID {
		return sql.ErrNoRows
	}
	r.applyRace(s)
	if s.Status != expected {
		return sql.ErrNoRows
	}
	submission.UpdatedAt = time.Now().UTC()
	r.items[submission.ID] = cloneSubmission(submission)
	return nil
}

func (r *memorySubmissionRepo) Transition(_ context.Context, params repository.TransitionParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live(params.ID)
	if !ok || (params.OrganizationID != "" && s.OrganizationID != params.OrganizationID) {
		return sql.ErrNoRows
	}
	r.applyRace(s)
	if s.Status != params.From || (params.RequireArtifacts && len(s.Artifacts) == 0) {
		return sql.ErrNoRows
	}
	s.Status = params.To
	s.UpdatedAt = params.At
	if params.SubmittedAt != nil {
		at := *params.SubmittedAt
		s.SubmittedAt = &at
	}
	if params.Review != nil {
		review := *params.Review
		s.Review = &review
	}
	if params.Publish != nil {
		at := params.At
		by := params.Publish.PublishedBy
		s.Publishing = models.PublishingRecord{
			PublishedAt: &at,
			PublishedBy: &by,
			IsPublic:    true,
			Featured:    params.Publish.Featured,
			Tags:        append([]string(nil), params.Publish.Tags...),
		}
	}
	return nil
}

func (r *memorySubmissionRepo) SoftDelete(_ context.Context, id, organizationID, actorID string, expected models.SubmissionStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.live(id)
	if !ok || s.OrganizationID != organizationID {
		return sql.ErrNoRows
	}
	r.applyRace(s)
	if s.Status != expected {
		return sql.ErrNoRows
	}
	s.IsDeleted = true
	s.DeletedAt = &at
	s.DeletedBy = &actorID
	s.UpdatedAt = at
	return nil
}

func (r *memorySubmissionRepo) IncrementView(_ context.Context, id string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || !isPublic(s) {
		return 0, sql.ErrNoRows
	}
	s.Metrics.Views++
	s.Metrics.LastViewedAt = &at
	return s.Metrics.Views, nil
}

func (r *memorySubmissionRepo) AddRating(_ context.Context, id string, rating int, _ time.Time) (*models.RatingResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || !isPublic(s) {
		return nil, sql.ErrNoRows
	}
	total := float64(s.Metrics.TotalRatings)
	avg := (s.Metrics.AverageRating*total + float64(rating)) / (total + 1)
	s.Metrics.AverageRating = math.Round(avg*10) / 10
	s.Metrics.TotalRatings++
	return &models.RatingResult{SubmissionID: id, AverageRating: s.Metrics.AverageRating, TotalRatings: s.Metrics.TotalRatings}, nil
}

func (r *memorySubmissionRepo) IncrementCounter(_ context.Context, id string, counter repository.EngagementCounter, _ time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || !isPublic(s) {
		return 0, sql.ErrNoRows
	}
	switch counter {
	case repository.CounterUniqueVisitors:
		s.Metrics.UniqueVisitors++
		return s.Metrics.UniqueVisitors, nil
	case repository.CounterFavorites:
		s.Metrics.Favorites++
		return s.Metrics.Favorites, nil
	case repository.CounterShares:
		s.Metrics.Shares++
		return s.Metrics.Shares, nil
	}
	return 0, fmt.Errorf("unknown counter %s", counter)
}

func (r *memorySubmissionRepo) GetPublic(_ context.Context, id string) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok || !isPublic(s) {
		return nil, sql.ErrNoRows
	}
	return cloneSubmission(s), nil
}

func (r *memorySubmissionRepo) ListPublic(_ context.Context, filter models.PublicFeedFilter) ([]models.Submission, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.Submission
	for _, s := range r.items {
		if !isPublic(s) || (filter.FeaturedOnly && !s.Publishing.Featured) {
			continue
		}
		matched = append(matched, *cloneSubmission(s))
	}
	submitted := func(s models.Submission) time.Time {
		if s.SubmittedAt != nil {
			return *s.SubmittedAt
		}
		return s.CreatedAt
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Publishing.Featured != b.Publishing.Featured {
			return a.Publishing.Featured
		}
		if a.Metrics.Views != b.Metrics.Views {
			return a.Metrics.Views > b.Metrics.Views
		}
		return submitted(a).After(submitted(b))
	})
	return paginate(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (r *memorySubmissionRepo) StatusCounts(_ context.Context, organizationID string) ([]models.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[models.SubmissionStatus]int{}
	for _, s := range r.items {
		if !s.IsDeleted && s.OrganizationID == organizationID {
			counts[s.Status]++
		}
	}
	result := make([]models.StatusCount, 0, len(counts))
	for status, count := range counts {
		result = append(result, models.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *memorySubmissionRepo) EngagementTotals(_ context.Context, organizationID string) (*models.EngagementTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &models.EngagementTotals{}
	var weighted float64
	var ratings int64
	for _, s := range r.items {
		if s.IsDeleted || s.OrganizationID != organizationID {
			continue
		}
		totals.TotalViews += s.Metrics.Views
		totals.TotalFavorites += s.Metrics.Favorites
		totals.TotalShares += s.Metrics.Shares
		if s.Metrics.TotalRatings > 0 {
			totals.RatedSubmissions++
			weighted += s.Metrics.AverageRating * float64(s.Metrics.TotalRatings)
			ratings += s.Metrics.TotalRatings
		}
	}
	if ratings > 0 {
		totals.AverageRating = math.Round(weighted/float64(ratings)*10) / 10
	}
	return totals, nil
}

func containsStatus(statuses []models.SubmissionStatus, status models.SubmissionStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func paginate(items []models.Submission, page, size int) []models.Submission {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []models.Submission{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type memoryHistory struct {
	mu      sync.Mutex
	entries []models.SubmissionHistory
	err     error
}

func (h *memoryHistory) Append(_ context.Context, entry *models.SubmissionHistory) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, *entry)
	return nil
}

func (h *memoryHistory) ListBySubmission(_ context.Context, submissionID string) ([]models.SubmissionHistory, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var result []models.SubmissionHistory
	for _, e := range h.entries {
		if e.SubmissionID == submissionID {
			result = append(result, e)
		}
	}
	return result, nil
}

type stubCatalog struct {
	artifacts map[string]models.CatalogArtifact
	calls     int
}

func newStubCatalog(artifacts ...models.CatalogArtifact) *stubCatalog {
	c := &stubCatalog{artifacts: make(map[string]models.CatalogArtifact)}
	for _, a := range artifacts {
		c.artifacts[a.ID] = a
	}
	return c
}

func (c *stubCatalog) FindByIDs(_ context.Context, ids []string) ([]models.CatalogArtifact, error) {
	c.calls++
	var found []models.CatalogArtifact
	for _, id := range ids {
		if a, ok := c.artifacts[id]; ok {
			found = append(found, a)
		}
	}
	return found, nil
}

func (c *stubCatalog) ListAvailable(_ context.Context, organizationID string) ([]models.CatalogArtifact, error) {
	c.calls++
	var result []models.CatalogArtifact
	for _, a := range c.artifacts {
		if a.OrganizationID == organizationID && a.Status == models.CatalogArtifactActive {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []models.SubmissionEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, event models.SubmissionEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) types() []models.SubmissionEventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := make([]models.SubmissionEventType, len(d.events))
	for i, e := range d.events {
		result[i] = e.Type
	}
	return result
}

// memoryCache implements CacheRepository with JSON-free value copies.
type memoryCache struct {
	mu      sync.Mutex
	values    map[string]interface{}
	deleted   []string
	deleteErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]interface{})}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *feedPage:
		*d = value.(feedPage)
	case *[]models.CatalogArtifact:
		*d = value.([]models.CatalogArtifact)
	default:
		return fmt.Errorf("unsupported cache destination %T", dest)
	}
	return nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case *feedPage:
		c.values[key] = *v
	case *[]models.CatalogArtifact:
		c.values[key] = *v
	default:
		c.values[key] = v
	}
	return nil
}

func (c *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	if c.deleteErr != nil {
		return c.deleteErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}
	return nil
}

func museumClaims(userID, orgID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleMuseum, OrganizationID: orgID}
}

func reviewerClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleReviewer}
}
