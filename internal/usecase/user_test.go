package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUpdateUserRoleIsAdminOnly(t *testing.T) {
	e := newTestEngine()
	creator := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)

	_, err := e.uc.UpdateUser(authCtx(creator), User{ID: creator.ID, Role: RoleAdmin})
	var forbidden ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	companyID := uuid.New()
	updated, err := e.uc.UpdateUser(authCtx(admin), User{
		ID:        creator.ID,
		Name:      "promoted",
		Role:      RoleSEOSpecialist,
		CompanyID: &companyID,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Role != RoleSEOSpecialist {
		t.Fatalf("expected SEO_SPECIALIST, got %s", updated.Role)
	}
}

func TestCreateUserDefaultsRole(t *testing.T) {
	e := newTestEngine()

	u, err := e.uc.CreateUser(context.Background(), User{Name: "new"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Role != RoleContentCreator {
		t.Fatalf("new users default to CONTENT_CREATOR, got %s", u.Role)
	}

	_, err = e.uc.CreateUser(context.Background(), User{Name: "bad", Role: "INTERN"})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCompanyWritesAreAdminOnly(t *testing.T) {
	e := newTestEngine()
	creator := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)

	_, err := e.uc.CreateCompany(authCtx(creator), Company{Name: "acme"})
	var forbidden ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c, err := e.uc.CreateCompany(authCtx(admin), Company{Name: "acme"})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if err := e.uc.DeleteCompany(authCtx(creator), c.ID); !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := e.uc.DeleteCompany(authCtx(admin), c.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestShareManagement(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	other := e.seedUser(RoleContentCreator, nil)
	viewer := e.seedUser(RoleSEOSpecialist, nil)

	a, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "private.png",
		Visibility: VisibilitySelectedUsers,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}

	// Only the uploader or an admin manages shares.
	_, err = e.uc.CreateAssetShare(authCtx(other), AssetShare{AssetID: a.ID, UserID: viewer.ID})
	var forbidden ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := e.uc.CreateAssetShare(authCtx(owner), AssetShare{AssetID: a.ID, UserID: viewer.ID}); err != nil {
		t.Fatalf("owner share: %v", err)
	}

	// The grant makes the asset visible regardless of status.
	got, err := e.uc.GetVisibleAsset(authCtx(viewer), a.ID)
	if err != nil {
		t.Fatalf("viewer get: %v", err)
	}
	if got.ID != a.ID {
		t.Fatal("shared asset should be visible")
	}

	if err := e.uc.DeleteAssetShare(authCtx(owner), a.ID, viewer.ID); err != nil {
		t.Fatalf("revoke share: %v", err)
	}
	var nf ErrNotFound
	if _, err := e.uc.GetVisibleAsset(authCtx(viewer), a.ID); !errors.As(err, &nf) {
		t.Fatalf("revoked viewer should get not found, got %v", err)
	}
}

func TestRegisterUser(t *testing.T) {
	e := newTestEngine()

	u, err := e.uc.RegisterUser(context.Background(), RegisterUser{
		Name:     "newcomer",
		Email:    "new@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != RoleContentCreator {
		t.Fatalf("new users start as CONTENT_CREATOR, got %s", u.Role)
	}

	au, err := e.uc.GetAuthUserByUID(context.Background(), "uid-new@example.com")
	if err != nil {
		t.Fatalf("auth user lookup: %v", err)
	}
	if au.UserID != u.ID {
		t.Fatal("auth link should reference the created user")
	}
}
