package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exhibit-api/internal/models"
)

func TestArtifactCatalogRepositoryFindByIDs(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewArtifactCatalogRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog_artifacts WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "category", "status", "image_url"}).
			AddRow("art-1", "org-1", "Processional Cross", "Liturgical", "ACTIVE", nil).
			AddRow("art-2", "org-2", "Illuminated Gospel", "Manuscript", "ON_LOAN", "https://media.example/gospel.jpg"))

	artifacts, err := repo.FindByIDs(context.Background(), []string{"art-1", "art-2", "art-404"})
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, models.CatalogArtifactOnLoan, artifacts[1].Status)
	require.NotNil(t, artifacts[1].ImageURL)

	empty, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactCatalogRepositoryListAvailable(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewArtifactCatalogRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE organization_id = $1 AND status = $2 ORDER BY name")).
		WithArgs("org-1", "ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "category", "status", "image_url"}).
			AddRow("art-1", "org-1", "Processional Cross", "Liturgical", "ACTIVE", nil))

	artifacts, err := repo.ListAvailable(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionHistoryRepositoryAppendAndList(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()

	repo := NewSubmissionHistoryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exhibit_submission_history")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	from := models.SubmissionStatusPending
	entry := &models.SubmissionHistory{
		SubmissionID: "sub-1",
		Operation:    models.OperationSubmitForReview,
		FromStatus:   &from,
		ToStatus:     models.SubmissionStatusUnderReview,
		ActorID:      "user-1",
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM exhibit_submission_history WHERE submission_id = $1 ORDER BY created_at ASC")).
		WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_id", "operation", "from_status", "to_status", "actor_id", "note", "created_at"}).
			AddRow("h-1", "sub-1", "create", nil, "PENDING", "user-1", nil, time.Now()).
			AddRow(entry.ID, "sub-1", "submit_for_review", "PENDING", "UNDER_REVIEW", "user-1", nil, time.Now()))

	entries, err := repo.ListBySubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].FromStatus)
	require.NotNil(t, entries[1].FromStatus)
	assert.Equal(t, models.SubmissionStatusPending, *entries[1].FromStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}
