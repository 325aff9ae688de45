package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exhibit-api/internal/dto"
	"github.com/noah-isme/exhibit-api/internal/middleware"
	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
	"github.com/noah-isme/exhibit-api/pkg/response"
)

type discoveryService interface {
	ListPublic(ctx context.Context, query dto.PublicFeedQuery) ([]models.Submission, *models.Pagination, error)
	ViewPublic(ctx context.Context, id, visitorKey string) (*models.Submission, error)
}

type engagementService interface {
	AddRating(ctx context.Context, id string, rating int) (*models.RatingResult, error)
	RecordFavorite(ctx context.Context, id string) (int64, error)
	RecordShare(ctx context.Context, id string) (int64, error)
}

// DiscoveryHandler serves the public exhibit feed and engagement endpoints.
type DiscoveryHandler struct {
	discovery  discoveryService
	engagement engagementService
}

// NewDiscoveryHandler builds a new handler.
func NewDiscoveryHandler(discovery discoveryService, engagement engagementService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery, engagement: engagement}
}

// Feed godoc
// @Summary Public exhibit feed
// @Tags Discovery
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param featured query bool false "Featured exhibits only"
// @Success 200 {object} response.Envelope
// @Router /public/submissions [get]
func (h *DiscoveryHandler) Feed(c *gin.Context) {
	var query dto.PublicFeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.discovery.ListPublic(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "featured_only", query.Featured)
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}

// View godoc
// @Summary View a published exhibit
// @Tags Discovery
// @Produce json
// @Param id path string true "Submission ID"
// @Param X-Visitor-ID header string false "Anonymous visitor id"
// @Success 200 {object} response.Envelope
// @Router /public/submissions/{id} [get]
func (h *DiscoveryHandler) View(c *gin.Context) {
	submission, err := h.discovery.ViewPublic(c.Request.Context(), c.Param("id"), visitorKey(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Rate godoc
// @Summary Rate a published exhibit
// @Tags Discovery
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.RatingRequest true "Rating between 1 and 5"
// @Success 200 {object} response.Envelope
// @Router /public/submissions/{id}/ratings [post]
func (h *DiscoveryHandler) Rate(c *gin.Context) {
	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rating payload"))
		return
	}
	result, err := h.engagement.AddRating(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Favorite godoc
// @Summary Favorite a published exhibit
// @Tags Discovery
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /public/submissions/{id}/favorite [post]
func (h *DiscoveryHandler) Favorite(c *gin.Context) {
	count, err := h.engagement.RecordFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"submission_id": c.Param("id"), "favorites": count}, nil)
}

// Share godoc
// @Summary Record a share of a published exhibit
// @Tags Discovery
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Router /public/submissions/{id}/share [post]
func (h *DiscoveryHandler) Share(c *gin.Context) {
	count, err := h.engagement.RecordShare(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"submission_id": c.Param("id"), "shares": count}, nil)
}
