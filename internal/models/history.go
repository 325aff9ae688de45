package models

import "time"

// SubmissionOperation names a guarded operation on a submission.
type SubmissionOperation string

const (
	OperationCreate          SubmissionOperation = "create"
	OperationUpdate          SubmissionOperation = "update"
	OperationSubmitForReview SubmissionOperation = "submit_for_review"
	OperationReview          SubmissionOperation = "review"
	OperationPublish         SubmissionOperation = "publish"
	OperationDelete          SubmissionOperation = "delete"
)

// SubmissionHistory is one entry of a submission's status trail.
type SubmissionHistory struct {
	ID           string              `db:"id" json:"id"`
	SubmissionID string              `db:"submission_id" json:"submission_id"`
	Operation    SubmissionOperation `db:"operation" json:"operation"`
	FromStatus   *SubmissionStatus   `db:"from_status" json:"from_status,omitempty"`
	ToStatus     SubmissionStatus    `db:"to_status" json:"to_status"`
	ActorID      string              `db:"actor_id" json:"actor_id"`
	Note         *string             `db:"note" json:"note,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}
