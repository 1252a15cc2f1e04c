package usecase

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCreateCarouselValidation(t *testing.T) {
	e := newTestEngine()
	ctx := authCtx(e.seedUser(RoleContentCreator, nil))
	companyID := uuid.New()

	tests := []struct {
		name string
		opt  CreateCarouselOption
	}{
		{
			name: "no children",
			opt: CreateCarouselOption{
				CompanyID:  &companyID,
				Visibility: VisibilityPublic,
			},
		},
		{
			name: "no company",
			opt: CreateCarouselOption{
				Visibility: VisibilityPublic,
				Children:   []CarouselChildDraft{{Type: AssetTypeImage, StorageRef: "a.png"}},
			},
		},
		{
			name: "document child",
			opt: CreateCarouselOption{
				CompanyID:  &companyID,
				Visibility: VisibilityPublic,
				Children:   []CarouselChildDraft{{Type: AssetTypeDocument, StorageRef: "a.pdf"}},
			},
		},
		{
			name: "link child",
			opt: CreateCarouselOption{
				CompanyID:  &companyID,
				Visibility: VisibilityPublic,
				Children:   []CarouselChildDraft{{Type: AssetTypeLink, StorageRef: "https://example.com"}},
			},
		},
		{
			name: "child missing storage ref",
			opt: CreateCarouselOption{
				CompanyID:  &companyID,
				Visibility: VisibilityPublic,
				Children:   []CarouselChildDraft{{Type: AssetTypeImage}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.CreateCarousel(ctx, tt.opt)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	if len(e.repo.carousels) != 0 || len(e.repo.assets) != 0 {
		t.Fatal("validation failures must not leave rows behind")
	}
}

func TestCreateCarouselInheritsMetadata(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	companyID := uuid.New()

	c, err := e.uc.CreateCarousel(authCtx(p), CreateCarouselOption{
		CompanyID:       &companyID,
		Visibility:      VisibilityCompany,
		CampaignName:    "summer-launch",
		TargetPlatforms: []string{"instagram", "facebook"},
		Tags:            []string{"summer"},
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "one.png", Submit: true},
			{Type: AssetTypeVideo, StorageRef: "two.mp4"},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	if c.Status != StatusPendingReview {
		t.Fatalf("one submitted and one draft child should aggregate to PENDING_REVIEW, got %s", c.Status)
	}
	if len(c.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(c.Children))
	}
	for _, child := range c.Children {
		if child.CarouselID == nil || *child.CarouselID != c.ID {
			t.Fatal("child should reference the container")
		}
		if child.CampaignName != "summer-launch" {
			t.Fatalf("child should inherit campaign by copy, got %q", child.CampaignName)
		}
		if child.CompanyID == nil || *child.CompanyID != companyID {
			t.Fatal("child should inherit the company")
		}
	}
	if len(e.storage.moved) != 2 {
		t.Fatalf("both uploads should be claimed, moved=%v", e.storage.moved)
	}
}

func TestCascadeDeletePlan(t *testing.T) {
	child1 := Asset{AssetCore: AssetCore{ID: uuid.New()}}
	child2 := Asset{AssetCore: AssetCore{ID: uuid.New()}}
	c := Carousel{AssetCore: AssetCore{ID: uuid.New()}, Children: []Asset{child1, child2}}

	plan := CascadeDeletePlan(c)
	if len(plan) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(plan))
	}
	if plan[0] != child1.ID || plan[1] != child2.ID {
		t.Fatal("children must come first")
	}
	if plan[2] != c.ID {
		t.Fatal("container must come last")
	}
}

func TestDeleteCarouselCascades(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(p)
	companyID := uuid.New()

	c, err := e.uc.CreateCarousel(ctx, CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilityPublic,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "one.png"},
			{Type: AssetTypeImage, StorageRef: "two.png"},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	plan, err := e.uc.DeleteCarousel(ctx, c.ID)
	if err != nil {
		t.Fatalf("delete carousel: %v", err)
	}
	if len(plan) != 3 || plan[len(plan)-1] != c.ID {
		t.Fatalf("plan should list children then container, got %v", plan)
	}
	if len(e.storage.deleted) != 2 {
		t.Fatalf("both children's bytes should be removed, deleted=%v", e.storage.deleted)
	}
	if len(e.repo.assets) != 0 || len(e.repo.carousels) != 0 {
		t.Fatal("cascade should remove every row")
	}
}

func TestDeleteCarouselAbortsWhenStorageFails(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(p)
	companyID := uuid.New()

	c, err := e.uc.CreateCarousel(ctx, CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilityPublic,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "one.png"},
			{Type: AssetTypeImage, StorageRef: "two.png"},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	e.storage.failDelete = map[string]bool{c.Children[1].StorageRef: true}

	if _, err := e.uc.DeleteCarousel(ctx, c.ID); err == nil {
		t.Fatal("expected cascade to fail when a child's bytes cannot be removed")
	}
	if len(e.repo.assets) != 2 {
		t.Fatal("no rows may be touched after a failed cascade")
	}
	if _, err := e.repo.GetCarouselByID(ctx, c.ID); err != nil {
		t.Fatal("container must survive a failed cascade")
	}
}

func TestDeleteChildSurfacesEmptyParent(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(p)
	companyID := uuid.New()

	c, err := e.uc.CreateCarousel(ctx, CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilityPublic,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "only.png", Submit: true},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	action, err := e.uc.DeleteAsset(ctx, c.Children[0].ID)
	if err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if action.CarouselID != c.ID || !action.Empty {
		t.Fatalf("deleting the only child should surface the empty parent, got %+v", action)
	}

	// The container is surfaced, never auto-deleted, and falls back to
	// DRAFT with no children left.
	got, err := e.repo.GetCarouselByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("container should still exist: %v", err)
	}
	if got.Status != StatusDraft {
		t.Fatalf("empty carousel should recompute to DRAFT, got %s", got.Status)
	}
}

func TestDeleteChildKeepsSiblings(t *testing.T) {
	e := newTestEngine()
	p := e.seedUser(RoleContentCreator, nil)
	ctx := authCtx(p)
	companyID := uuid.New()

	c, err := e.uc.CreateCarousel(ctx, CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilityPublic,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "one.png", Submit: true},
			{Type: AssetTypeImage, StorageRef: "two.png", Submit: true},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	action, err := e.uc.DeleteAsset(ctx, c.Children[0].ID)
	if err != nil {
		t.Fatalf("delete child: %v", err)
	}
	if action.Empty {
		t.Fatal("a sibling remains, parent is not empty")
	}

	got, err := e.repo.GetCarouselByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get carousel: %v", err)
	}
	if len(got.Children) != 1 {
		t.Fatalf("sibling should survive, got %d children", len(got.Children))
	}
}

func TestListVisibleCarouselsShapesForSEO(t *testing.T) {
	e := newTestEngine()
	owner := e.seedUser(RoleContentCreator, nil)
	admin := e.seedUser(RoleAdmin, nil)
	seo := e.seedUser(RoleSEOSpecialist, nil)
	companyID := uuid.New()

	partial, err := e.uc.CreateCarousel(authCtx(owner), CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilitySelectedUsers,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "one.png", Submit: true},
			{Type: AssetTypeImage, StorageRef: "two.png", Submit: true},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}
	unreviewed, err := e.uc.CreateCarousel(authCtx(owner), CreateCarouselOption{
		CompanyID:  &companyID,
		Visibility: VisibilitySelectedUsers,
		Children: []CarouselChildDraft{
			{Type: AssetTypeImage, StorageRef: "three.png", Submit: true},
		},
	})
	if err != nil {
		t.Fatalf("create carousel: %v", err)
	}

	for _, id := range []uuid.UUID{partial.ID, unreviewed.ID} {
		if _, err := e.uc.CreateAssetShare(authCtx(owner), AssetShare{AssetID: id, UserID: seo.ID}); err != nil {
			t.Fatalf("share carousel: %v", err)
		}
	}

	if _, err := e.uc.ApproveCarouselAsset(authCtx(admin), partial.ID, partial.Children[0].ID, ApproveAssetOption{}); err != nil {
		t.Fatalf("approve child: %v", err)
	}

	list, _, err := e.uc.ListVisibleCarousels(authCtx(seo), ListCarouselsOption{})
	if err != nil {
		t.Fatalf("seo list: %v", err)
	}
	if len(list) != 1 || list[0].ID != partial.ID {
		t.Fatalf("seo should see only the carousel with an approved child, got %d", len(list))
	}
	if len(list[0].Children) != 1 || list[0].Children[0].Status != StatusApproved {
		t.Fatalf("seo should see only approved children, got %+v", list[0].Children)
	}

	// The owner keeps the full view.
	mine, _, err := e.uc.ListVisibleCarousels(authCtx(owner), ListCarouselsOption{})
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("owner should see both carousels, got %d", len(mine))
	}
}
