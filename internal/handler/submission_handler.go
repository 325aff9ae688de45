package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exhibit-api/internal/dto"
	"github.com/noah-isme/exhibit-api/internal/models"
	"github.com/noah-isme/exhibit-api/internal/service"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
	"github.com/noah-isme/exhibit-api/pkg/response"
)

type submissionService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateSubmissionRequest) (*models.Submission, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Submission, error)
	List(ctx context.Context, claims *models.JWTClaims, query dto.SubmissionQuery) ([]models.Submission, *models.Pagination, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateSubmissionRequest) (*models.Submission, error)
	SubmitForReview(ctx context.Context, claims *models.JWTClaims, id string) (*models.Submission, error)
	ApplyReview(ctx context.Context, claims *models.JWTClaims, id string, req dto.ReviewSubmissionRequest) (*models.Submission, error)
	Publish(ctx context.Context, claims *models.JWTClaims, id string, req dto.PublishSubmissionRequest) (*models.Submission, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	History(ctx context.Context, claims *models.JWTClaims, id string) ([]models.SubmissionHistory, error)
	AvailableArtifacts(ctx context.Context, claims *models.JWTClaims) ([]models.CatalogArtifact, error)
	OrganizationStats(ctx context.Context, claims *models.JWTClaims) (*models.OrganizationStats, error)
	ExportStats(ctx context.Context, claims *models.JWTClaims, format string) (*service.ExportFile, error)
}

// SubmissionHandler exposes the museum and reviewer submission endpoints.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler builds a new handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// List godoc
// @Summary List the caller's organization submissions
// @Tags Submissions
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	var query dto.SubmissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Create godoc
// @Summary Create a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubmissionRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}
	submission, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Get godoc
// @Summary Get a submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	submission, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Update godoc
// @Summary Update an editable submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.UpdateSubmissionRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id} [put]
func (h *SubmissionHandler) Update(c *gin.Context) {
	var req dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}
	submission, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Delete godoc
// @Summary Soft-delete an editable submission
// @Tags Submissions
// @Param id path string true "Submission ID"
// @Success 204
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Submit godoc
// @Summary Submit for review
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	submission, err := h.service.SubmitForReview(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// History godoc
// @Summary Status history of a submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/history [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Review godoc
// @Summary Approve or reject a submission under review
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.ReviewSubmissionRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/review [post]
func (h *SubmissionHandler) Review(c *gin.Context) {
	var req dto.ReviewSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	submission, err := h.service.ApplyReview(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Publish godoc
// @Summary Publish an approved submission
// @Tags Review
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.PublishSubmissionRequest false "Publishing options"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/publish [post]
func (h *SubmissionHandler) Publish(c *gin.Context) {
	var req dto.PublishSubmissionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid publish payload"))
			return
		}
	}
	submission, err := h.service.Publish(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Artifacts godoc
// @Summary Catalog artifacts available to the caller's organization
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions/artifacts [get]
func (h *SubmissionHandler) Artifacts(c *gin.Context) {
	artifacts, err := h.service.AvailableArtifacts(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artifacts, nil)
}

// Stats godoc
// @Summary Submission statistics for the caller's organization
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions/stats [get]
func (h *SubmissionHandler) Stats(c *gin.Context) {
	stats, err := h.service.OrganizationStats(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportStats godoc
// @Summary Download submission statistics
// @Tags Submissions
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /submissions/stats/export [get]
func (h *SubmissionHandler) ExportStats(c *gin.Context) {
	file, err := h.service.ExportStats(c.Request.Context(), claimsFromContext(c), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
