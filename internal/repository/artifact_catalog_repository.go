package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/exhibit-api/internal/models"
)

// ArtifactCatalogRepository reads the museum artifact catalog. The catalog is owned elsewhere; this service never writes it.
type ArtifactCatalogRepository struct {
	db *sqlx.DB
}

// NewArtifactCatalogRepository constructs the repository.
func NewArtifactCatalogRepository(db *sqlx.DB) *ArtifactCatalogRepository {
	return &ArtifactCatalogRepository{db: db}
}

// FindByIDs returns the catalog entries for ids that exist. Unknown ids are simply absent.
func (r *ArtifactCatalogRepository) FindByIDs(ctx context.Context, ids []string) ([]models.CatalogArtifact, error) {
	if len(ids) == 0 {
		return []models.CatalogArtifact{}, nil
	}
	const query = `SELECT id, organization_id, name, category, status, image_url
FROM catalog_artifacts WHERE id = ANY($1)`
	var artifacts []models.CatalogArtifact
	if err := r.db.SelectContext(ctx, &artifacts, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find catalog artifacts: %w", err)
	}
	return artifacts, nil
}

// ListAvailable returns the organization's active artifacts ordered by name.
func (r *ArtifactCatalogRepository) ListAvailable(ctx context.Context, organizationID string) ([]models.CatalogArtifact, error) {
	const query = `SELECT id, organization_id, name, category, status, image_url
FROM catalog_artifacts WHERE organization_id = $1 AND status = $2 ORDER BY name, id`
	var artifacts []models.CatalogArtifact
	if err := r.db.SelectContext(ctx, &artifacts, query, organizationID, models.CatalogArtifactActive); err != nil {
		return nil, fmt.Errorf("list available artifacts: %w", err)
	}
	return artifacts, nil
}
