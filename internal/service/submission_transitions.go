package service

import (
	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

// TransitionGuard holds the legal source states for each guarded operation.
type TransitionGuard struct {
	sources map[models.SubmissionOperation][]models.SubmissionStatus
}

// NewTransitionGuard builds the status graph. allowResubmittedReview lets RESUBMITTED
// records re-enter review through submit-for-review.
func NewTransitionGuard(allowResubmittedReview bool) *TransitionGuard {
	editable := []models.SubmissionStatus{
		models.SubmissionStatusPending,
		models.SubmissionStatusRejected,
		models.SubmissionStatusResubmitted,
	}
	submittable := []models.SubmissionStatus{models.SubmissionStatusPending}
	if allowResubmittedReview {
		submittable = append(submittable, models.SubmissionStatusResubmitted)
	}
	return &TransitionGuard{sources: map[models.SubmissionOperation][]models.SubmissionStatus{
		models.OperationUpdate:          editable,
		models.OperationDelete:          editable,
		models.OperationSubmitForReview: submittable,
		models.OperationReview:          {models.SubmissionStatusUnderReview},
		models.OperationPublish:         {models.SubmissionStatusApproved},
	}}
}

// Allowed reports whether op may run while the submission is in current.
func (g *TransitionGuard) Allowed(op models.SubmissionOperation, current models.SubmissionStatus) bool {
	for _, status := range g.sources[op] {
		if status == current {
			return true
		}
	}
	return false
}

// Check returns INVALID_TRANSITION carrying current and op when op is not allowed.
func (g *TransitionGuard) Check(op models.SubmissionOperation, current models.SubmissionStatus) error {
	if g.Allowed(op, current) {
		return nil
	}
	return appErrors.InvalidTransition(string(current), string(op))
}

// Sources lists the states op may start from.
func (g *TransitionGuard) Sources(op models.SubmissionOperation) []models.SubmissionStatus {
	return append([]models.SubmissionStatus(nil), g.sources[op]...)
}

// UpdateTarget is the status an edit leaves behind. A rejected submission becomes RESUBMITTED.
func UpdateTarget(current models.SubmissionStatus) models.SubmissionStatus {
	if current == models.SubmissionStatusRejected {
		return models.SubmissionStatusResubmitted
	}
	return current
}

// ReviewTarget validates a reviewer decision.
func ReviewTarget(decision models.SubmissionStatus) (models.SubmissionStatus, bool) {
	switch decision {
	case models.SubmissionStatusApproved, models.SubmissionStatusRejected:
		return decision, true
	}
	return "", false
}
