package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

func TestTransitionGuardGraph(t *testing.T) {
	guard := NewTransitionGuard(true)

	cases := []struct {
		op      models.SubmissionOperation
		current models.SubmissionStatus
		allowed bool
	}{
		{models.OperationUpdate, models.SubmissionStatusPending, true},
		{models.OperationUpdate, models.SubmissionStatusRejected, true},
		{models.OperationUpdate, models.SubmissionStatusResubmitted, true},
		{models.OperationUpdate, models.SubmissionStatusUnderReview, false},
		{models.OperationUpdate, models.SubmissionStatusApproved, false},
		{models.OperationUpdate, models.SubmissionStatusPublished, false},
		{models.OperationDelete, models.SubmissionStatusPending, true},
		{models.OperationDelete, models.SubmissionStatusUnderReview, false},
		{models.OperationDelete, models.SubmissionStatusApproved, false},
		{models.OperationDelete, models.SubmissionStatusPublished, false},
		{models.OperationSubmitForReview, models.SubmissionStatusPending, true},
		{models.OperationSubmitForReview, models.SubmissionStatusResubmitted, true},
		{models.OperationSubmitForReview, models.SubmissionStatusRejected, false},
		{models.OperationReview, models.SubmissionStatusUnderReview, true},
		{models.OperationReview, models.SubmissionStatusPending, false},
		{models.OperationPublish, models.SubmissionStatusApproved, true},
		{models.OperationPublish, models.SubmissionStatusUnderReview, false},
		{models.OperationPublish, models.SubmissionStatusPublished, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.op)+"_"+string(tc.current), func(t *testing.T) {
			assert.Equal(t, tc.allowed, guard.Allowed(tc.op, tc.current))
		})
	}
}

func TestTransitionGuardStrictResubmittedReview(t *testing.T) {
	guard := NewTransitionGuard(false)
	assert.False(t, guard.Allowed(models.OperationSubmitForReview, models.SubmissionStatusResubmitted))
	assert.Equal(t, []models.SubmissionStatus{models.SubmissionStatusPending}, guard.Sources(models.OperationSubmitForReview))
}

func TestTransitionGuardCheckCarriesContext(t *testing.T) {
	guard := NewTransitionGuard(true)
	err := guard.Check(models.OperationDelete, models.SubmissionStatusApproved)
	require.Error(t, err)
	require.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	appErr := appErrors.FromError(err)
	assert.Equal(t, "APPROVED", appErr.Details["current_status"])
	assert.Equal(t, "delete", appErr.Details["operation"])
	assert.NoError(t, guard.Check(models.OperationReview, models.SubmissionStatusUnderReview))
}

func TestUpdateTarget(t *testing.T) {
	assert.Equal(t, models.SubmissionStatusResubmitted, UpdateTarget(models.SubmissionStatusRejected))
	assert.Equal(t, models.SubmissionStatusPending, UpdateTarget(models.SubmissionStatusPending))
	assert.Equal(t, models.SubmissionStatusResubmitted, UpdateTarget(models.SubmissionStatusResubmitted))
}

func TestReviewTarget(t *testing.T) {
	_, ok := ReviewTarget(models.SubmissionStatusPublished)
	assert.False(t, ok)
	status, ok := ReviewTarget(models.SubmissionStatusRejected)
	assert.True(t, ok)
	assert.Equal(t, models.SubmissionStatusRejected, status)
}
