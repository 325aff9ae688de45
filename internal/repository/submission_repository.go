package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/noah-isme/exhibit-api/internal/models"
)

const submissionColumns = `id, organization_id, submitter_id, title, type, description, layout,
theme, accessibility, media, interactive, artifacts, status,
reviewer_id, reviewed_at, review_feedback, review_rating, rejection_reason,
view_count, unique_visitors, average_rating, total_ratings, favorite_count, share_count, last_viewed_at,
published_at, published_by, is_public, is_featured, tags,
meta_title, meta_description, keywords, seo_auto_derived,
is_deleted, deleted_at, deleted_by, submitted_at, created_at, updated_at`

// Every read path filters soft-deleted rows in SQL.
const notDeleted = "is_deleted = FALSE"

const publicVisible = "is_public = TRUE AND status = 'PUBLISHED' AND is_deleted = FALSE"

// submissionRow is the flat storage shape of models.Submission.
type submissionRow struct {
	ID             string         `db:"id"`
	OrganizationID string         `db:"organization_id"`
	SubmitterID    string         `db:"submitter_id"`
	Title          string         `db:"title"`
	Type           string         `db:"type"`
	Description    string         `db:"description"`
	Layout         string         `db:"layout"`
	Theme          types.JSONText `db:"theme"`
	Accessibility  types.JSONText `db:"accessibility"`
	Media          types.JSONText `db:"media"`
	Interactive    types.JSONText `db:"interactive"`
	Artifacts      types.JSONText `db:"artifacts"`
	Status         string         `db:"status"`

	ReviewerID      *string    `db:"reviewer_id"`
	ReviewedAt      *time.Time `db:"reviewed_at"`
	ReviewFeedback  *string    `db:"review_feedback"`
	ReviewRating    *int       `db:"review_rating"`
	RejectionReason *string    `db:"rejection_reason"`

	ViewCount      int64      `db:"view_count"`
	UniqueVisitors int64      `db:"unique_visitors"`
	AverageRating  float64    `db:"average_rating"`
	TotalRatings   int64      `db:"total_ratings"`
	FavoriteCount  int64      `db:"favorite_count"`
	ShareCount     int64      `db:"share_count"`
	LastViewedAt   *time.Time `db:"last_viewed_at"`

	PublishedAt *time.Time     `db:"published_at"`
	PublishedBy *string        `db:"published_by"`
	IsPublic    bool           `db:"is_public"`
	IsFeatured  bool           `db:"is_featured"`
	Tags        pq.StringArray `db:"tags"`

	MetaTitle       string         `db:"meta_title"`
	MetaDescription string         `db:"meta_description"`
	Keywords        pq.StringArray `db:"keywords"`
	SEOAutoDerived  bool           `db:"seo_auto_derived"`

	IsDeleted   bool       `db:"is_deleted"`
	DeletedAt   *time.Time `db:"deleted_at"`
	DeletedBy   *string    `db:"deleted_by"`
	SubmittedAt *time.Time `db:"submitted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func newSubmissionRow(s *models.Submission) (*submissionRow, error) {
	row := &submissionRow{
		ID:              s.ID,
		OrganizationID:  s.OrganizationID,
		SubmitterID:     s.SubmitterID,
		Title:           s.Title,
		Type:            string(s.Type),
		Description:     s.Description,
		Layout:          string(s.Layout),
		Status:          string(s.Status),
		ViewCount:       s.Metrics.Views,
		UniqueVisitors:  s.Metrics.UniqueVisitors,
		AverageRating:   s.Metrics.AverageRating,
		TotalRatings:    s.Metrics.TotalRatings,
		FavoriteCount:   s.Metrics.Favorites,
		ShareCount:      s.Metrics.Shares,
		LastViewedAt:    s.Metrics.LastViewedAt,
		PublishedAt:     s.Publishing.PublishedAt,
		PublishedBy:     s.Publishing.PublishedBy,
		IsPublic:        s.Publishing.IsPublic,
		IsFeatured:      s.Publishing.Featured,
		Tags:            pq.StringArray(nonNilStrings(s.Publishing.Tags)),
		MetaTitle:       s.SEO.MetaTitle,
		MetaDescription: s.SEO.MetaDescription,
		Keywords:        pq.StringArray(nonNilStrings(s.SEO.Keywords)),
		SEOAutoDerived:  s.SEO.AutoDerived,
		IsDeleted:       s.IsDeleted,
		DeletedAt:       s.DeletedAt,
		DeletedBy:       s.DeletedBy,
		SubmittedAt:     s.SubmittedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Review != nil {
		row.ReviewerID = &s.Review.ReviewerID
		row.ReviewedAt = &s.Review.ReviewedAt
		row.ReviewFeedback = &s.Review.Feedback
		row.ReviewRating = s.Review.Rating
		row.RejectionReason = s.Review.RejectionReason
	}
	artifacts := s.Artifacts
	if artifacts == nil {
		artifacts = []models.ArtifactReference{}
	}
	docs := []struct {
		dest  *types.JSONText
		value interface{}
	}{
		{&row.Theme, s.Theme},
		{&row.Accessibility, s.Accessibility},
		{&row.Media, s.Media},
		{&row.Interactive, s.Interactive},
		{&row.Artifacts, artifacts},
	}
	for _, doc := range docs {
		raw, err := json.Marshal(doc.value)
		if err != nil {
			return nil, fmt.Errorf("encode submission document: %w", err)
		}
		*doc.dest = types.JSONText(raw)
	}
	return row, nil
}

func (r *submissionRow) toModel() (*models.Submission, error) {
	s := &models.Submission{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		SubmitterID:    r.SubmitterID,
		Title:          r.Title,
		Type:           models.SubmissionType(r.Type),
		Description:    r.Description,
		Layout:         models.LayoutMode(r.Layout),
		Status:         models.SubmissionStatus(r.Status),
		Metrics: models.EngagementMetrics{
			Views:          r.ViewCount,
			UniqueVisitors: r.UniqueVisitors,
			AverageRating:  r.AverageRating,
			TotalRatings:   r.TotalRatings,
			Favorites:      r.FavoriteCount,
			Shares:         r.ShareCount,
			LastViewedAt:   r.LastViewedAt,
		},
		Publishing: models.PublishingRecord{
			PublishedAt: r.PublishedAt,
			PublishedBy: r.PublishedBy,
			IsPublic:    r.IsPublic,
			Featured:    r.IsFeatured,
			Tags:        nonNilStrings(r.Tags),
		},
		SEO: models.SEO{
			MetaTitle:       r.MetaTitle,
			MetaDescription: r.MetaDescription,
			Keywords:        nonNilStrings(r.Keywords),
			AutoDerived:     r.SEOAutoDerived,
		},
		IsDeleted:   r.IsDeleted,
		DeletedAt:   r.DeletedAt,
		DeletedBy:   r.DeletedBy,
		SubmittedAt: r.SubmittedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ReviewerID != nil && r.ReviewedAt != nil {
		review := &models.ReviewRecord{
			ReviewerID:      *r.ReviewerID,
			ReviewedAt:      *r.ReviewedAt,
			Rating:          r.ReviewRating,
			RejectionReason: r.RejectionReason,
		}
		if r.ReviewFeedback != nil {
			review.Feedback = *r.ReviewFeedback
		}
		s.Review = review
	}
	docs := []struct {
		raw  types.JSONText
		dest interface{}
	}{
		{r.Theme, &s.Theme},
		{r.Accessibility, &s.Accessibility},
		{r.Media, &s.Media},
		{r.Interactive, &s.Interactive},
		{r.Artifacts, &s.Artifacts},
	}
	for _, doc := range docs {
		if len(doc.raw) == 0 {
			continue
		}
		if err := doc.raw.Unmarshal(doc.dest); err != nil {
			return nil, fmt.Errorf("decode submission %s document: %w", r.ID, err)
		}
	}
	if s.Artifacts == nil {
		s.Artifacts = []models.ArtifactReference{}
	}
	return s, nil
}

func rowsToModels(rows []submissionRow) ([]models.Submission, error) {
	result := make([]models.Submission, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

// SubmissionRepository persists exhibit submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = submission.CreatedAt
	row, err := newSubmissionRow(submission)
	if err != nil {
		return err
	}
	const query = `INSERT INTO exhibit_submissions (id, organization_id, submitter_id, title, type, description, layout,
theme, accessibility, media, interactive, artifacts, status,
view_count, unique_visitors, average_rating, total_ratings, favorite_count, share_count,
is_public, is_featured, tags, meta_title, meta_description, keywords, seo_auto_derived,
is_deleted, created_at, updated_at)
VALUES (:id, :organization_id, :submitter_id, :title, :type, :description, :layout,
:theme, :accessibility, :media, :interactive, :artifacts, :status,
:view_count, :unique_visitors, :average_rating, :total_ratings, :favorite_count, :share_count,
:is_public, :is_featured, :tags, :meta_title, :meta_description, :keywords, :seo_auto_derived,
FALSE, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// GetByID loads a live submission. An empty organizationID skips the organization filter.
func (r *SubmissionRepository) GetByID(ctx context.Context, id, organizationID string) (*models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM exhibit_submissions WHERE id = $1 AND %s", submissionColumns, notDeleted)
	args := []interface{}{id}
	if organizationID != "" {
		query += " AND organization_id = $2"
		args = append(args, organizationID)
	}
	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return row.toModel()
}

// ListByOrganization returns one page of an organization's submissions plus the total count.
func (r *SubmissionRepository) ListByOrganization(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	where := []string{"organization_id = $1", notDeleted}
	args := []interface{}{filter.OrganizationID}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, pq.Array(statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	whereClause := strings.Join(where, " AND ")
	size, offset := pageWindow(filter.Page, filter.PageSize)

	query := fmt.Sprintf(`SELECT %s FROM exhibit_submissions WHERE %s
ORDER BY updated_at DESC, id
LIMIT %d OFFSET %d`, submissionColumns, whereClause, size, offset)
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM exhibit_submissions WHERE %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}
	submissions, err := rowsToModels(rows)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// Update writes editable content when the stored status still equals expected.
// sql.ErrNoRows reports a lost compare-and-swap or a missing row.
func (r *SubmissionRepository) Update(ctx context.Context, submission *models.Submission, expected models.SubmissionStatus) error {
	submission.UpdatedAt = time.Now().UTC()
	row, err := newSubmissionRow(submission)
	if err != nil {
		return err
	}
	const query = `UPDATE exhibit_submissions SET title = :title, type = :type, description = :description, layout = :layout,
theme = :theme, accessibility = :accessibility, media = :media, interactive = :interactive, artifacts = :artifacts,
status = :status, meta_title = :meta_title, meta_description = :meta_description, keywords = :keywords,
seo_auto_derived = :seo_auto_derived, updated_at = :updated_at
WHERE id = :id AND organization_id = :organization_id AND is_deleted = FALSE AND status = :expected_status`
	args := struct {
		*submissionRow
		ExpectedStatus string `db:"expected_status"`
	}{row, string(expected)}
	result, err := r.db.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return expectOneRow(result, "update submission")
}

// TransitionParams describes a guarded status change and the columns written with it.
type TransitionParams struct {
	ID             string
	OrganizationID string
	From           models.SubmissionStatus
	To             models.SubmissionStatus
	Review         *models.ReviewRecord
	Publish        *PublishParams
	SubmittedAt    *time.Time
	At             time.Time

	// RequireArtifacts makes the swap fail when the stored artifact list is empty.
	RequireArtifacts bool
}

// PublishParams carries the publishing columns written by a publish transition.
type PublishParams struct {
	PublishedBy string
	Featured    bool
	Tags        []string
}

// Transition moves a submission from params.From to params.To in a single compare-and-swap update.
func (r *SubmissionRepository) Transition(ctx context.Context, params TransitionParams) error {
	if params.At.IsZero() {
		params.At = time.Now().UTC()
	}
	setParts := []string{"status = :to_status", "updated_at = :at"}
	args := map[string]interface{}{
		"id":          params.ID,
		"from_status": string(params.From),
		"to_status":   string(params.To),
		"at":          params.At,
	}
	if params.SubmittedAt != nil {
		setParts = append(setParts, "submitted_at = :submitted_at")
		args["submitted_at"] = *params.SubmittedAt
	}
	if params.Review != nil {
		setParts = append(setParts,
			"reviewer_id = :reviewer_id",
			"reviewed_at = :reviewed_at",
			"review_feedback = :review_feedback",
			"review_rating = :review_rating",
			"rejection_reason = :rejection_reason",
		)
		args["reviewer_id"] = params.Review.ReviewerID
		args["reviewed_at"] = params.Review.ReviewedAt
		args["review_feedback"] = params.Review.Feedback
		args["review_rating"] = params.Review.Rating
		args["rejection_reason"] = params.Review.RejectionReason
	}
	if params.Publish != nil {
		setParts = append(setParts,
			"published_at = :at",
			"published_by = :published_by",
			"is_public = TRUE",
			"is_featured = :is_featured",
			"tags = :tags",
		)
		args["published_by"] = params.Publish.PublishedBy
		args["is_featured"] = params.Publish.Featured
		args["tags"] = pq.StringArray(nonNilStrings(params.Publish.Tags))
	}
	where := "id = :id AND is_deleted = FALSE AND status = :from_status"
	if params.RequireArtifacts {
		where += " AND jsonb_array_length(artifacts) > 0"
	}
	if params.OrganizationID != "" {
		where += " AND organization_id = :organization_id"
		args["organization_id"] = params.OrganizationID
	}
	query := fmt.Sprintf("UPDATE exhibit_submissions SET %s WHERE %s", strings.Join(setParts, ", "), where)
	result, err := r.db.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("transition submission: %w", err)
	}
	return expectOneRow(result, "transition submission")
}

// SoftDelete flags a submission as deleted when its status still equals expected.
func (r *SubmissionRepository) SoftDelete(ctx context.Context, id, organizationID, actorID string, expected models.SubmissionStatus, at time.Time) error {
	const query = `UPDATE exhibit_submissions SET is_deleted = TRUE, deleted_at = $1, deleted_by = $2, updated_at = $1
WHERE id = $3 AND organization_id = $4 AND is_deleted = FALSE AND status = $5`
	result, err := r.db.ExecContext(ctx, query, at, actorID, id, organizationID, string(expected))
	if err != nil {
		return fmt.Errorf("soft delete submission: %w", err)
	}
	return expectOneRow(result, "soft delete submission")
}

// IncrementView adds one view in a single statement and returns the stored count.
func (r *SubmissionRepository) IncrementView(ctx context.Context, id string, at time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE exhibit_submissions SET view_count = view_count + 1, last_viewed_at = $2, updated_at = $2
WHERE id = $1 AND %s RETURNING view_count`, publicVisible)
	var views int64
	if err := r.db.GetContext(ctx, &views, query, id, at); err != nil {
		return 0, err
	}
	return views, nil
}

// AddRating folds a rating into the stored average using the values present at write time.
func (r *SubmissionRepository) AddRating(ctx context.Context, id string, rating int, at time.Time) (*models.RatingResult, error) {
	query := fmt.Sprintf(`UPDATE exhibit_submissions SET
average_rating = ROUND(((average_rating * total_ratings + $2) / (total_ratings + 1))::numeric, 1),
total_ratings = total_ratings + 1, updated_at = $3
WHERE id = $1 AND %s RETURNING id, average_rating, total_ratings`, publicVisible)
	var result models.RatingResult
	if err := r.db.GetContext(ctx, &result, query, id, rating, at); err != nil {
		return nil, err
	}
	return &result, nil
}

// EngagementCounter names a monotonically increasing engagement column.
type EngagementCounter string

const (
	CounterUniqueVisitors EngagementCounter = "unique_visitors"
	CounterFavorites      EngagementCounter = "favorite_count"
	CounterShares         EngagementCounter = "share_count"
)

// IncrementCounter adds one to an engagement counter of a public submission.
func (r *SubmissionRepository) IncrementCounter(ctx context.Context, id string, counter EngagementCounter, at time.Time) (int64, error) {
	switch counter {
	case CounterUniqueVisitors, CounterFavorites, CounterShares:
	default:
		return 0, fmt.Errorf("unknown engagement counter %q", counter)
	}
	query := fmt.Sprintf(`UPDATE exhibit_submissions SET %[1]s = %[1]s + 1, updated_at = $2
WHERE id = $1 AND %[2]s RETURNING %[1]s`, counter, publicVisible)
	var value int64
	if err := r.db.GetContext(ctx, &value, query, id, at); err != nil {
		return 0, err
	}
	return value, nil
}

// GetPublic loads a submission visible in the discovery feed.
func (r *SubmissionRepository) GetPublic(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM exhibit_submissions WHERE id = $1 AND %s", submissionColumns, publicVisible)
	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toModel()
}

// ListPublic returns the ranked discovery feed page plus the total count.
func (r *SubmissionRepository) ListPublic(ctx context.Context, filter models.PublicFeedFilter) ([]models.Submission, int, error) {
	whereClause := publicVisible
	if filter.FeaturedOnly {
		whereClause += " AND is_featured = TRUE"
	}
	size, offset := pageWindow(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s FROM exhibit_submissions WHERE %s
ORDER BY is_featured DESC, view_count DESC, COALESCE(submitted_at, created_at) DESC, id
LIMIT %d OFFSET %d`, submissionColumns, whereClause, size, offset)
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, 0, fmt.Errorf("list public submissions: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM exhibit_submissions WHERE %s", whereClause)); err != nil {
		return nil, 0, fmt.Errorf("count public submissions: %w", err)
	}
	submissions, err := rowsToModels(rows)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// StatusCounts groups an organization's live submissions by status.
func (r *SubmissionRepository) StatusCounts(ctx context.Context, organizationID string) ([]models.StatusCount, error) {
	query := fmt.Sprintf(`SELECT status, COUNT(*) AS count FROM exhibit_submissions
WHERE organization_id = $1 AND %s GROUP BY status`, notDeleted)
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, organizationID); err != nil {
		return nil, fmt.Errorf("count submissions by status: %w", err)
	}
	return counts, nil
}

// EngagementTotals sums engagement over an organization's live submissions.
// The average rating is weighted by the number of ratings each submission received.
func (r *SubmissionRepository) EngagementTotals(ctx context.Context, organizationID string) (*models.EngagementTotals, error) {
	query := fmt.Sprintf(`SELECT
COALESCE(SUM(view_count), 0) AS total_views,
COALESCE(SUM(favorite_count), 0) AS total_favorites,
COALESCE(SUM(share_count), 0) AS total_shares,
COUNT(*) FILTER (WHERE total_ratings > 0) AS rated_submissions,
COALESCE(ROUND((SUM(average_rating * total_ratings) / NULLIF(SUM(total_ratings), 0))::numeric, 1), 0) AS average_rating
FROM exhibit_submissions WHERE organization_id = $1 AND %s`, notDeleted)
	var totals models.EngagementTotals
	if err := r.db.GetContext(ctx, &totals, query, organizationID); err != nil {
		return nil, fmt.Errorf("sum submission engagement: %w", err)
	}
	return &totals, nil
}

func pageWindow(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return pageSize, (page - 1) * pageSize
}

func expectOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
