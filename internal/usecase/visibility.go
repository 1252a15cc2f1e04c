package usecase

import (
	"github.com/google/uuid"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleContentCreator Role = "CONTENT_CREATOR"
	RoleSEOSpecialist  Role = "SEO_SPECIALIST"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleContentCreator, RoleSEOSpecialist:
		return true
	}
	return false
}

// VisibilityLevel is the closed set of audience scopes an asset can carry.
type VisibilityLevel string

const (
	VisibilityUploaderOnly  VisibilityLevel = "UPLOADER_ONLY"
	VisibilityAdminOnly     VisibilityLevel = "ADMIN_ONLY"
	VisibilityCompany       VisibilityLevel = "COMPANY"
	VisibilityRole          VisibilityLevel = "ROLE"
	VisibilitySelectedUsers VisibilityLevel = "SELECTED_USERS"
	VisibilityPublic        VisibilityLevel = "PUBLIC"
)

func (v VisibilityLevel) Valid() bool {
	switch v {
	case VisibilityUploaderOnly, VisibilityAdminOnly, VisibilityCompany,
		VisibilityRole, VisibilitySelectedUsers, VisibilityPublic:
		return true
	}
	return false
}

// Principal is the authenticated actor on whose behalf the engine runs.
type Principal struct {
	ID        uuid.UUID
	Role      Role
	CompanyID *uuid.UUID
}

// Capabilities is the per-(principal, asset) permission set.
type Capabilities struct {
	CanView     bool
	CanEdit     bool
	CanDelete   bool
	CanApprove  bool
	CanDownload bool
}

// ResolveCapabilities computes the capability set for a principal against
// an asset or carousel container. Ownership is checked before any
// role-based restriction, so uploaders always see their own work whatever
// its status or visibility level. shared reports whether an explicit share
// record exists for the principal; it is pre-resolved by the caller and
// only consulted for SELECTED_USERS.
func ResolveCapabilities(p Principal, core AssetCore, status Status, shared bool) Capabilities {
	// Owner first. Never approve: a user cannot review their own upload.
	if p.ID == core.UploaderID {
		return Capabilities{
			CanView:     true,
			CanEdit:     true,
			CanDelete:   true,
			CanDownload: status == StatusApproved,
		}
	}

	if p.Role == RoleAdmin {
		return Capabilities{
			CanView:     true,
			CanEdit:     true,
			CanDelete:   true,
			CanApprove:  true,
			CanDownload: true,
		}
	}

	var caps Capabilities
	switch core.Visibility {
	case VisibilityPublic:
		caps.CanView = status == StatusApproved
	case VisibilityCompany:
		caps.CanView = status == StatusApproved &&
			p.CompanyID != nil && core.CompanyID != nil &&
			*p.CompanyID == *core.CompanyID
	case VisibilityRole:
		caps.CanView = status == StatusApproved && p.Role == core.AllowedRole
	case VisibilitySelectedUsers:
		caps.CanView = shared
	case VisibilityUploaderOnly, VisibilityAdminOnly:
		// non-owner, non-admin principals see nothing
	}
	caps.CanDownload = caps.CanView

	return caps
}
