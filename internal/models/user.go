package models

// UserRole represents the roles issued by the identity service.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleReviewer   UserRole = "REVIEWER"
	RoleMuseum     UserRole = "MUSEUM"
)

// Elevated reports whether the role may review and publish independent of organization scope.
func (r UserRole) Elevated() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleReviewer:
		return true
	}
	return false
}

// Valid reports whether r is a role this service understands.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleReviewer, RoleMuseum:
		return true
	}
	return false
}

// ElevatedRoles lists roles allowed on reviewer endpoints.
var ElevatedRoles = []UserRole{RoleSuperAdmin, RoleAdmin, RoleReviewer}

// CallerScope is the resolved access scope of an authenticated caller.
type CallerScope struct {
	UserID         string
	Role           UserRole
	OrganizationID string
	Elevated       bool
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination derives page count from the total.
func NewPagination(page, pageSize, total int) *Pagination {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: total, TotalPages: pages}
}
