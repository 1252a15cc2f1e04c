package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCreateAssetValidation(t *testing.T) {
	e := newTestEngine()
	ctx := authCtx(e.seedUser(RoleContentCreator, nil))

	tests := []struct {
		name  string
		opt   CreateAssetOption
		field string
	}{
		{
			name:  "unknown type",
			opt:   CreateAssetOption{Type: "GIF", StorageRef: "a.gif", Visibility: VisibilityPublic},
			field: "type",
		},
		{
			name:  "missing storage ref",
			opt:   CreateAssetOption{Type: AssetTypeImage, Visibility: VisibilityPublic},
			field: "storage_ref",
		},
		{
			name:  "unknown visibility",
			opt:   CreateAssetOption{Type: AssetTypeImage, StorageRef: "a.png", Visibility: "FRIENDS"},
			field: "visibility",
		},
		{
			name:  "role visibility without allowed role",
			opt:   CreateAssetOption{Type: AssetTypeImage, StorageRef: "a.png", Visibility: VisibilityRole},
			field: "allowed_role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.CreateAsset(ctx, tt.opt)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestCreateAssetClaimsUpload(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(p)

	a, err := e.uc.CreateAsset(ctx, CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "tmp-ref/banner.png",
		Visibility: VisibilityPublic,
		Submit:     true,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if a.Status != StatusPendingReview {
		t.Fatalf("submitted asset should be PENDING_REVIEW, got %s", a.Status)
	}
	if a.UploaderID != p.ID {
		t.Fatal("uploader should be the principal")
	}
	if len(e.storage.moved) != 1 || e.storage.moved[0] != "tmp-ref/banner.png" {
		t.Fatalf("expected temp file to be claimed, moved=%v", e.storage.moved)
	}
	if !strings.HasPrefix(a.StorageRef, "assets/") {
		t.Fatalf("storage ref should be rehomed under assets/, got %q", a.StorageRef)
	}
}

func TestCreateAssetLinkSkipsStorage(t *testing.T) {
	e := newTestEngine()
	ctx := authCtx(e.seedUser(RoleContentCreator, nil))

	a, err := e.uc.CreateAsset(ctx, CreateAssetOption{
		Type:       AssetTypeLink,
		StorageRef: "https://example.com/landing",
		Visibility: VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("create link asset: %v", err)
	}
	if a.Status != StatusDraft {
		t.Fatalf("unsubmitted asset should be DRAFT, got %s", a.Status)
	}
	if len(e.storage.moved) != 0 {
		t.Fatal("link assets carry no file and should not touch storage")
	}
	if a.StorageRef != "https://example.com/landing" {
		t.Fatalf("link ref should be stored verbatim, got %q", a.StorageRef)
	}
}

func TestGetVisibleAssetHidesLikeMissing(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	stranger := e.seedUser(RoleContentCreator, nil)

	a, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "secret.png",
		Visibility: VisibilityUploaderOnly,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}

	_, err = e.uc.GetVisibleAsset(authCtx(stranger), a.ID)
	var nf ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("hidden asset should be indistinguishable from missing, got %v", err)
	}

	got, err := e.uc.GetVisibleAsset(authCtx(owner), a.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.ID != a.ID {
		t.Fatal("owner should read own asset")
	}
}

func TestGetVisibleAssetPresignsDownload(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)
	viewer := e.seedUser(RoleSEOSpecialist, nil)

	a, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "banner.png",
		Visibility: VisibilityPublic,
		Submit:     true,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if _, err := e.uc.ApproveAsset(authCtx(admin), a.ID, ApproveAssetOption{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := e.uc.GetVisibleAsset(authCtx(viewer), a.ID)
	if err != nil {
		t.Fatalf("viewer get: %v", err)
	}
	if got.DownloadURL == "" {
		t.Fatal("approved public asset should carry a presigned download url")
	}
}

func TestListVisibleAssets(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)
	stranger := e.seedUser(RoleContentCreator, nil)

	draft, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "draft.png",
		Visibility: VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	submitted, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeVideo,
		StorageRef: "clip.mp4",
		Visibility: VisibilityPublic,
		Submit:     true,
	})
	if err != nil {
		t.Fatalf("create submitted: %v", err)
	}
	if _, err := e.uc.ApproveAsset(authCtx(admin), submitted.ID, ApproveAssetOption{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	mine, _, err := e.uc.ListVisibleAssets(authCtx(owner), ListAssetsOption{})
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("owner should see both own assets, got %d", len(mine))
	}

	theirs, _, err := e.uc.ListVisibleAssets(authCtx(stranger), ListAssetsOption{})
	if err != nil {
		t.Fatalf("stranger list: %v", err)
	}
	if len(theirs) != 1 || theirs[0].ID != submitted.ID {
		t.Fatalf("stranger should see only the approved public asset, got %d", len(theirs))
	}
	_ = draft
}

func TestUpdateAssetForbiddenForAudience(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)
	viewer := e.seedUser(RoleSEOSpecialist, nil)

	a, err := e.uc.CreateAsset(authCtx(owner), CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "banner.png",
		Visibility: VisibilityPublic,
		Submit:     true,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if _, err := e.uc.ApproveAsset(authCtx(admin), a.ID, ApproveAssetOption{}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Audience membership grants view, never edit.
	_, err = e.uc.UpdateAsset(authCtx(viewer), a.ID, UpdateAssetOption{CampaignName: ptr("hijacked")})
	var forbidden ErrForbidden
	if !errors.As(err, &forbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateAssetSubmitMovesDraftToPending(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(owner)

	a, err := e.uc.CreateAsset(ctx, CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "banner.png",
		Visibility: VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}

	updated, err := e.uc.UpdateAsset(ctx, a.ID, UpdateAssetOption{Submit: true})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if updated.Status != StatusPendingReview {
		t.Fatalf("submitted draft should be PENDING_REVIEW, got %s", updated.Status)
	}
}

func TestDeleteAssetRemovesStoredFile(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(owner)

	a, err := e.uc.CreateAsset(ctx, CreateAssetOption{
		Type:       AssetTypeImage,
		StorageRef: "banner.png",
		Visibility: VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}

	action, err := e.uc.DeleteAsset(ctx, a.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if action.CarouselID != uuid.Nil {
		t.Fatal("standalone delete should not report a parent action")
	}
	if len(e.storage.deleted) != 1 || e.storage.deleted[0] != a.StorageRef {
		t.Fatalf("stored bytes should be removed, deleted=%v", e.storage.deleted)
	}
	if _, err := e.repo.GetAssetByID(ctx, a.ID); err == nil {
		t.Fatal("asset row should be gone")
	}
}
