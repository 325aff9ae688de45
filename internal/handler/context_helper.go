package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/exhibit-api/internal/middleware"
	"github.com/noah-isme/exhibit-api/internal/models"
)

// VisitorHeader carries an anonymous visitor identifier for unique visitor counts.
const VisitorHeader = "X-Visitor-ID"

// claimsFromContext returns the caller claims, or nil for anonymous public requests.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// visitorKey prefers the explicit visitor header and falls back to the signed-in user.
func visitorKey(c *gin.Context) string {
	if key := strings.TrimSpace(c.GetHeader(VisitorHeader)); key != "" {
		return key
	}
	if claims := claimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return ""
}
