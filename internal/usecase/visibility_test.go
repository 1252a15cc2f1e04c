package usecase

import (
	"testing"

	"github.com/google/uuid"
)

func TestResolveCapabilitiesOwner(t *testing.T) {
	owner := uuid.New()
	core := AssetCore{ID: uuid.New(), UploaderID: owner, Visibility: VisibilityAdminOnly}

	// Ownership wins over any visibility level, even ADMIN_ONLY on a
	// non-admin uploader.
	caps := ResolveCapabilities(Principal{ID: owner, Role: RoleContentCreator}, core, StatusDraft, false)
	if !caps.CanView || !caps.CanEdit || !caps.CanDelete {
		t.Fatalf("owner should view, edit and delete own draft, got %+v", caps)
	}
	if caps.CanApprove {
		t.Fatal("owner must never be able to approve own upload")
	}
	if caps.CanDownload {
		t.Fatal("owner should not download an unapproved asset")
	}

	caps = ResolveCapabilities(Principal{ID: owner, Role: RoleContentCreator}, core, StatusApproved, false)
	if !caps.CanDownload {
		t.Fatal("owner should download own approved asset")
	}
}

func TestResolveCapabilitiesAdmin(t *testing.T) {
	core := AssetCore{ID: uuid.New(), UploaderID: uuid.New(), Visibility: VisibilityUploaderOnly}

	caps := ResolveCapabilities(Principal{ID: uuid.New(), Role: RoleAdmin}, core, StatusDraft, false)
	if !caps.CanView || !caps.CanEdit || !caps.CanDelete || !caps.CanApprove || !caps.CanDownload {
		t.Fatalf("admin should hold every capability, got %+v", caps)
	}
}

func TestResolveCapabilitiesByLevel(t *testing.T) {
	companyA := uuid.New()
	companyB := uuid.New()
	uploader := uuid.New()

	tests := []struct {
		name       string
		visibility VisibilityLevel
		allowed    Role
		coreCo     *uuid.UUID
		principal  Principal
		status     Status
		shared     bool
		wantView   bool
	}{
		{
			name:       "public approved",
			visibility: VisibilityPublic,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusApproved,
			wantView:   true,
		},
		{
			name:       "public pending hidden",
			visibility: VisibilityPublic,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusPendingReview,
			wantView:   false,
		},
		{
			name:       "company match",
			visibility: VisibilityCompany,
			coreCo:     &companyA,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator, CompanyID: &companyA},
			status:     StatusApproved,
			wantView:   true,
		},
		{
			name:       "company mismatch",
			visibility: VisibilityCompany,
			coreCo:     &companyA,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator, CompanyID: &companyB},
			status:     StatusApproved,
			wantView:   false,
		},
		{
			name:       "company without membership",
			visibility: VisibilityCompany,
			coreCo:     &companyA,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusApproved,
			wantView:   false,
		},
		{
			name:       "role match",
			visibility: VisibilityRole,
			allowed:    RoleSEOSpecialist,
			principal:  Principal{ID: uuid.New(), Role: RoleSEOSpecialist},
			status:     StatusApproved,
			wantView:   true,
		},
		{
			name:       "role mismatch",
			visibility: VisibilityRole,
			allowed:    RoleSEOSpecialist,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusApproved,
			wantView:   false,
		},
		{
			name:       "selected users with share",
			visibility: VisibilitySelectedUsers,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusPendingReview,
			shared:     true,
			wantView:   true,
		},
		{
			name:       "selected users without share",
			visibility: VisibilitySelectedUsers,
			principal:  Principal{ID: uuid.New(), Role: RoleContentCreator},
			status:     StatusApproved,
			wantView:   false,
		},
		{
			name:       "uploader only stranger",
			visibility: VisibilityUploaderOnly,
			principal:  Principal{ID: uuid.New(), Role: RoleSEOSpecialist},
			status:     StatusApproved,
			wantView:   false,
		},
		{
			name:       "admin only non-admin",
			visibility: VisibilityAdminOnly,
			principal:  Principal{ID: uuid.New(), Role: RoleSEOSpecialist},
			status:     StatusApproved,
			wantView:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := AssetCore{
				ID:          uuid.New(),
				UploaderID:  uploader,
				CompanyID:   tt.coreCo,
				Visibility:  tt.visibility,
				AllowedRole: tt.allowed,
			}
			caps := ResolveCapabilities(tt.principal, core, tt.status, tt.shared)
			if caps.CanView != tt.wantView {
				t.Fatalf("CanView = %v, want %v", caps.CanView, tt.wantView)
			}
			if caps.CanDownload != caps.CanView {
				t.Fatalf("CanDownload = %v should track CanView = %v for non-owners", caps.CanDownload, caps.CanView)
			}
			if caps.CanEdit || caps.CanDelete || caps.CanApprove {
				t.Fatalf("audience membership grants view only, got %+v", caps)
			}
		})
	}
}

func TestRoleAndVisibilityValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleContentCreator, RoleSEOSpecialist} {
		if !r.Valid() {
			t.Errorf("%s should be valid", r)
		}
	}
	if Role("INTERN").Valid() {
		t.Error("INTERN should not be valid")
	}

	for _, v := range []VisibilityLevel{
		VisibilityUploaderOnly, VisibilityAdminOnly, VisibilityCompany,
		VisibilityRole, VisibilitySelectedUsers, VisibilityPublic,
	} {
		if !v.Valid() {
			t.Errorf("%s should be valid", v)
		}
	}
	if VisibilityLevel("FRIENDS").Valid() {
		t.Error("FRIENDS should not be valid")
	}
}
