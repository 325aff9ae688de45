package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/exhibit-api/internal/models"
)

// SubmissionHistoryRepository stores the status trail of submissions.
type SubmissionHistoryRepository struct {
	db *sqlx.DB
}

// NewSubmissionHistoryRepository constructs the repository.
func NewSubmissionHistoryRepository(db *sqlx.DB) *SubmissionHistoryRepository {
	return &SubmissionHistoryRepository{db: db}
}

// Append inserts one history entry.
func (r *SubmissionHistoryRepository) Append(ctx context.Context, entry *models.SubmissionHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO exhibit_submission_history (id, submission_id, operation, from_status, to_status, actor_id, note, created_at)
VALUES (:id, :submission_id, :operation, :from_status, :to_status, :actor_id, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append submission history: %w", err)
	}
	return nil
}

// ListBySubmission returns the trail oldest first.
func (r *SubmissionHistoryRepository) ListBySubmission(ctx context.Context, submissionID string) ([]models.SubmissionHistory, error) {
	const query = `SELECT id, submission_id, operation, from_status, to_status, actor_id, note, created_at
FROM exhibit_submission_history WHERE submission_id = $1 ORDER BY created_at ASC, id`
	var entries []models.SubmissionHistory
	if err := r.db.SelectContext(ctx, &entries, query, submissionID); err != nil {
		return nil, fmt.Errorf("list submission history: %w", err)
	}
	return entries, nil
}
