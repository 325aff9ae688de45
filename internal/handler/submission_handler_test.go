package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/exhibit-api/internal/dto"
	"github.com/noah-isme/exhibit-api/internal/middleware"
	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/service"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

type submissionServiceMock struct {
	submission  *models.Submission
	list        []models.Submission
	pagination  *models.Pagination
	history     []models.SubmissionHistory
	stats       *models.OrganizationStats
	export      *service.ExportFile
	err         error
	lastClaims  *models.JWTClaims
	lastID      string
	lastQuery   dto.SubmissionQuery
	lastCreate  dto.CreateSubmissionRequest
	lastReview  dto.ReviewSubmissionRequest
	lastPublish dto.PublishSubmissionRequest
	lastFormat  string
	deleted     bool
}

func (m *submissionServiceMock) Create(_ context.Context, claims *models.JWTClaims, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	m.lastClaims, m.lastCreate = claims, req
	return m.submission, m.err
}

func (m *submissionServiceMock) Get(_ context.Context, claims *models.JWTClaims, id string) (*models.Submission, error) {
	m.lastClaims, m.lastID = claims, id
	return m.submission, m.err
}

func (m *submissionServiceMock) List(_ context.Context, claims *models.JWTClaims, query dto.SubmissionQuery) ([]models.Submission, *models.Pagination, error) {
	m.lastClaims, m.lastQuery = claims, query
	return m.list, m.pagination, m.err
}

func (m *submissionServiceMock) Update(_ context.Context, claims *models.JWTClaims, id string, _ dto.UpdateSubmissionRequest) (*models.Submission, error) {
	m.lastClaims, m.lastID = claims, id
	return m.submission, m.err
}

func (m *submissionServiceMock) SubmitForReview(_ context.Context, claims *models.JWTClaims, id string) (*models.Submission, error) {
	m.lastClaims, m.lastID = claims, id
	return m.submission, m.err
}

func (m *submissionServiceMock) ApplyReview(_ context.Context, claims *models.JWTClaims, id string, req dto.ReviewSubmissionRequest) (*models.Submission, error) {
	m.lastClaims, m.lastID, m.lastReview = claims, id, req
	return m.submission, m.err
}

func (m *submissionServiceMock) Publish(_ context.Context, claims *models.JWTClaims, id string, req dto.PublishSubmissionRequest) (*models.Submission, error) {
	m.lastClaims, m.lastID, m.lastPublish = claims, id, req
	return m.submission, m.err
}

func (m *submissionServiceMock) Delete(_ context.Context, claims *models.JWTClaims, id string) error {
	m.lastClaims, m.lastID = claims, id
	m.deleted = m.err == nil
	return m.err
}

func (m *submissionServiceMock) History(_ context.Context, _ *models.JWTClaims, id string) ([]models.SubmissionHistory, error) {
	m.lastID = id
	return m.history, m.err
}

func (m *submissionServiceMock) AvailableArtifacts(_ context.Context, _ *models.JWTClaims) ([]models.CatalogArtifact, error) {
	return []models.CatalogArtifact{{ID: "art-1", Name: "Processional Cross"}}, m.err
}

func (m *submissionServiceMock) OrganizationStats(_ context.Context, _ *models.JWTClaims) (*models.OrganizationStats, error) {
	return m.stats, m.err
}

func (m *submissionServiceMock) ExportStats(_ context.Context, _ *models.JWTClaims, format string) (*service.ExportFile, error) {
	m.lastFormat = format
	return m.export, m.err
}

func submissionContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "curator-1", Role: models.RoleMuseum, OrganizationID: "org-m"})
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestSubmissionHandlerCreate(t *testing.T) {
	mockSvc := &submissionServiceMock{submission: &models.Submission{ID: "sub-1", Title: "Lalibela Churches", Status: models.SubmissionStatusPending}}
	handler := NewSubmissionHandler(mockSvc)

	c, w := submissionContext(http.MethodPost, "/submissions", []byte(`{"title":"Lalibela Churches","type":"GALLERY","artifacts":[{"artifact_id":"art-1","display_order":1}]}`))
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Lalibela Churches", mockSvc.lastCreate.Title)
	require.Len(t, mockSvc.lastCreate.Artifacts, 1)
	assert.Equal(t, "org-m", mockSvc.lastClaims.OrganizationID)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
}

func TestSubmissionHandlerCreateInvalidBody(t *testing.T) {
	mockSvc := &submissionServiceMock{}
	handler := NewSubmissionHandler(mockSvc)

	c, w := submissionContext(http.MethodPost, "/submissions", []byte(`{"title":`))
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, mockSvc.lastClaims)
}

func TestSubmissionHandlerListPassesQuery(t *testing.T) {
	mockSvc := &submissionServiceMock{list: []models.Submission{{ID: "sub-1"}}, pagination: models.NewPagination(2, 5, 6)}
	handler := NewSubmissionHandler(mockSvc)

	c, w := submissionContext(http.MethodGet, "/submissions?status=REJECTED,RESUBMITTED&page=2&page_size=5", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "REJECTED,RESUBMITTED", mockSvc.lastQuery.Status)
	assert.Equal(t, 2, mockSvc.lastQuery.Page)
	assert.Equal(t, 5, mockSvc.lastQuery.PageSize)
	pagination := decodeEnvelope(t, w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(6), pagination["total_count"])
}

func TestSubmissionHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appErrors.InvalidTransition("UNDER_REVIEW", "delete"), http.StatusBadRequest, "INVALID_TRANSITION"},
		{appErrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{appErrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{appErrors.ReferentialIntegrity(nil, []string{"art-9"}), http.StatusBadRequest, "REFERENTIAL_INTEGRITY"},
		{appErrors.ErrMissingScope, http.StatusBadRequest, "MISSING_SCOPE"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			handler := NewSubmissionHandler(&submissionServiceMock{err: tc.err})
			c, w := submissionContext(http.MethodDelete, "/submissions/sub-1", nil)
			c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

			handler.Delete(c)

			require.Equal(t, tc.status, w.Code)
			errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
			assert.Equal(t, tc.code, errBody["code"])
		})
	}
}

func TestSubmissionHandlerDelete(t *testing.T) {
	mockSvc := &submissionServiceMock{}
	handler := NewSubmissionHandler(mockSvc)
	c, w := submissionContext(http.MethodDelete, "/submissions/sub-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.deleted)
	assert.Equal(t, "sub-1", mockSvc.lastID)
}

func TestSubmissionHandlerReviewAndPublish(t *testing.T) {
	mockSvc := &submissionServiceMock{submission: &models.Submission{ID: "sub-1", Status: models.SubmissionStatusRejected}}
	handler := NewSubmissionHandler(mockSvc)

	c, w := submissionContext(http.MethodPost, "/submissions/sub-1/review", []byte(`{"decision":"REJECTED","rejection_reason":"needs higher-resolution images"}`))
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	handler.Review(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SubmissionStatusRejected, mockSvc.lastReview.Decision)
	assert.Equal(t, "needs higher-resolution images", mockSvc.lastReview.RejectionReason)

	c, w = submissionContext(http.MethodPost, "/submissions/sub-1/publish", nil)
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mockSvc.lastPublish.Featured)

	c, w = submissionContext(http.MethodPost, "/submissions/sub-1/publish", []byte(`{"featured":true,"tags":["heritage"]}`))
	c.Params = gin.Params{{Key: "id", Value: "sub-1"}}
	handler.Publish(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.lastPublish.Featured)
	assert.Equal(t, []string{"heritage"}, mockSvc.lastPublish.Tags)
}

func TestSubmissionHandlerExportStats(t *testing.T) {
	mockSvc := &submissionServiceMock{export: &service.ExportFile{
		Filename:    "submission-stats-org-m-20261016.csv",
		ContentType: "text/csv",
		Body:        []byte("Metric,Value\ntotal,3\n"),
	}}
	handler := NewSubmissionHandler(mockSvc)

	c, w := submissionContext(http.MethodGet, "/submissions/stats/export", nil)
	handler.ExportStats(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.lastFormat)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "submission-stats-org-m-20261016.csv")
	assert.Equal(t, "Metric,Value\ntotal,3\n", w.Body.String())
}
