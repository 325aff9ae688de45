package models

import "time"

// SubmissionEventType names a domain event emitted after a successful transition.
type SubmissionEventType string

const (
	EventSubmissionSubmitted   SubmissionEventType = "submission.submitted"
	EventSubmissionResubmitted SubmissionEventType = "submission.resubmitted"
	EventSubmissionReviewed    SubmissionEventType = "submission.reviewed"
	EventSubmissionPublished   SubmissionEventType = "submission.published"
	EventSubmissionDeleted     SubmissionEventType = "submission.deleted"
)

// SubmissionEvent is the message delivered to downstream consumers.
type SubmissionEvent struct {
	Type           SubmissionEventType `json:"type"`
	SubmissionID   string              `json:"submission_id"`
	OrganizationID string              `json:"organization_id"`
	Status         SubmissionStatus    `json:"status"`
	ActorID        string              `json:"actor_id"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

// AffectsFeed reports whether the public feed may have changed.
func (e SubmissionEvent) AffectsFeed() bool {
	return e.Type == EventSubmissionPublished || e.Type == EventSubmissionDeleted
}
