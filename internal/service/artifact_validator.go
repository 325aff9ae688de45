package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/exhibit-api/internal/models"
	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

type artifactCatalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.CatalogArtifact, error)
	ListAvailable(ctx context.Context, organizationID string) ([]models.CatalogArtifact, error)
}

// ArtifactValidator checks artifact references against the external catalog.
type ArtifactValidator struct {
	catalog artifactCatalog
}

// NewArtifactValidator constructs the validator.
func NewArtifactValidator(catalog artifactCatalog) *ArtifactValidator {
	return &ArtifactValidator{catalog: catalog}
}

// Validate confirms every id exists and belongs to organizationID.
// Duplicates fail before the catalog is consulted; an empty set always succeeds.
func (v *ArtifactValidator) Validate(ctx context.Context, organizationID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	var duplicates []string
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return appErrors.Clone(appErrors.ErrValidation, "artifact_id is required for every artifact reference")
		}
		if _, ok := seen[id]; ok {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = struct{}{}
	}
	if len(duplicates) > 0 {
		return appErrors.WithDetails(appErrors.ErrValidation, "artifact references must be unique",
			map[string]interface{}{"duplicate_ids": duplicates})
	}

	unique := make([]string, 0, len(seen))
	for id := range seen {
		unique = append(unique, id)
	}
	sort.Strings(unique)

	found, err := v.catalog.FindByIDs(ctx, unique)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to query artifact catalog")
	}
	owners := make(map[string]string, len(found))
	for _, artifact := range found {
		owners[artifact.ID] = artifact.OrganizationID
	}

	var missing, foreign []string
	for _, id := range unique {
		owner, ok := owners[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case owner != organizationID:
			foreign = append(foreign, id)
		}
	}
	if len(missing) > 0 || len(foreign) > 0 {
		return appErrors.ReferentialIntegrity(missing, foreign)
	}
	return nil
}

// Available lists catalog artifacts the organization may place in an exhibit.
func (v *ArtifactValidator) Available(ctx context.Context, organizationID string) ([]models.CatalogArtifact, error) {
	artifacts, err := v.catalog.ListAvailable(ctx, organizationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list artifacts for organization %s", organizationID))
	}
	if artifacts == nil {
		artifacts = []models.CatalogArtifact{}
	}
	return artifacts, nil
}

func sameArtifactSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]int, len(a))
	for _, id := range a {
		set[id]++
	}
	for _, id := range b {
		if set[id] == 0 {
			return false
		}
		set[id]--
	}
	return true
}
