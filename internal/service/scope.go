package service

import (
	"strings"

	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

// ResolveScope turns authenticated claims into an access scope.
// Organization-scoped roles must carry an organization id.
func ResolveScope(claims *models.JWTClaims) (models.CallerScope, error) {
	if claims == nil || claims.UserID == "" {
		return models.CallerScope{}, appErrors.ErrUnauthorized
	}
	scope := models.CallerScope{
		UserID:         claims.UserID,
		Role:           claims.Role,
		OrganizationID: strings.TrimSpace(claims.OrganizationID),
		Elevated:       claims.Role.Elevated(),
	}
	if !scope.Elevated && scope.OrganizationID == "" {
		return models.CallerScope{}, appErrors.ErrMissingScope
	}
	return scope, nil
}

// readFilter is the organization filter for single-record reads. Elevated callers read across organizations.
func readFilter(scope models.CallerScope) string {
	if scope.Elevated {
		return ""
	}
	return scope.OrganizationID
}

// ownerOrganization is the organization an owner-only write is confined to.
func ownerOrganization(scope models.CallerScope) (string, error) {
	if scope.OrganizationID == "" {
		return "", appErrors.ErrMissingScope
	}
	return scope.OrganizationID, nil
}
