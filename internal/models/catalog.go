package models

// CatalogArtifactStatus is the display status owned by the artifact catalog.
type CatalogArtifactStatus string

const (
	CatalogArtifactActive   CatalogArtifactStatus = "ACTIVE"
	CatalogArtifactArchived CatalogArtifactStatus = "ARCHIVED"
	CatalogArtifactOnLoan   CatalogArtifactStatus = "ON_LOAN"
)

// CatalogArtifact is the read model of an artifact owned by the external catalog.
type CatalogArtifact struct {
	ID             string                `db:"id" json:"id"`
	OrganizationID string                `db:"organization_id" json:"organization_id"`
	Name           string                `db:"name" json:"name"`
	Category       string                `db:"category" json:"category"`
	Status         CatalogArtifactStatus `db:"status" json:"status"`
	ImageURL       *string               `db:"image_url" json:"image_url,omitempty"`
}
