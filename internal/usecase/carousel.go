package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Carousel is a container grouping IMAGE/VIDEO children under shared
// campaign metadata. It has no asset type and no parent of its own, so a
// carousel can neither nest nor appear as a child. Status is derived from
// the children via AggregateStatus and never set by callers.
type Carousel struct {
	AssetCore

	Status   Status
	Children []Asset

	Uploader *User
	Company  *Company
}

// ParentAction tells the caller what state a carousel was left in after a
// child deletion. An empty carousel is surfaced, never auto-deleted or
// auto-populated.
type ParentAction struct {
	CarouselID uuid.UUID
	Empty      bool
}

type ListCarouselsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Statuses     []Status
	UploaderIDs  uuid.UUIDs
	CompanyIDs   uuid.UUIDs
	CampaignName string
}

// CarouselChildDraft is one child of a carousel at creation time.
type CarouselChildDraft struct {
	Type       AssetType
	StorageRef string
	Submit     bool
}

type CreateCarouselOption struct {
	CompanyID       *uuid.UUID
	Visibility      VisibilityLevel
	AllowedRole     Role
	CampaignName    string
	TargetPlatforms []string
	Tags            []string
	Children        []CarouselChildDraft
}

// validateCarouselCreate enforces the creation-time referential rules:
// at least one child, IMAGE/VIDEO children only, a company, and a storage
// reference per child. Reported before any mutation.
func validateCarouselCreate(opt CreateCarouselOption) error {
	if len(opt.Children) == 0 {
		return ValidationError{Field: "children", Message: "a carousel requires at least one child"}
	}
	if opt.CompanyID == nil {
		return ValidationError{Field: "company_id", Message: "a carousel requires a company"}
	}
	if !opt.Visibility.Valid() {
		return ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", opt.Visibility)}
	}
	if opt.Visibility == VisibilityRole && !opt.AllowedRole.Valid() {
		return ValidationError{Field: "allowed_role", Message: "ROLE visibility requires an allowed role"}
	}
	for i, c := range opt.Children {
		if c.Type != AssetTypeImage && c.Type != AssetTypeVideo {
			return ValidationError{
				Field:   fmt.Sprintf("children[%d].type", i),
				Message: fmt.Sprintf("carousel children must be IMAGE or VIDEO, got %q", c.Type),
			}
		}
		if c.StorageRef == "" {
			return ValidationError{
				Field:   fmt.Sprintf("children[%d].storage_ref", i),
				Message: "storage reference is required",
			}
		}
	}
	return nil
}

// CreateCarousel creates the container and its children in one
// transaction. Children inherit company, campaign, platforms and tags from
// the container by copy; later edits to the container do not propagate.
func (u Usecase) CreateCarousel(ctx context.Context, opt CreateCarouselOption) (Carousel, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Carousel{}, err
	}

	if err := validateCarouselCreate(opt); err != nil {
		return Carousel{}, err
	}

	core := AssetCore{
		UploaderID:      p.ID,
		CompanyID:       opt.CompanyID,
		Visibility:      opt.Visibility,
		AllowedRole:     opt.AllowedRole,
		CampaignName:    opt.CampaignName,
		TargetPlatforms: opt.TargetPlatforms,
		Tags:            opt.Tags,
	}

	children := make([]Asset, 0, len(opt.Children))
	statuses := make([]Status, 0, len(opt.Children))
	for _, c := range opt.Children {
		status := StatusDraft
		if c.Submit {
			status = StatusPendingReview
		}
		statuses = append(statuses, status)

		dest := fmt.Sprintf("assets/%s", p.ID)
		if err := u.fileStorageProvider.MoveTempFilePublic(ctx, c.StorageRef, dest); err != nil {
			return Carousel{}, fmt.Errorf("claiming uploaded file: %w", err)
		}

		children = append(children, Asset{
			AssetCore:  core, // copy-on-create inheritance
			Type:       c.Type,
			Status:     status,
			StorageRef: fmt.Sprintf("%s/%s", dest, c.StorageRef),
		})
	}

	carousel, err := u.repo.CreateCarousel(ctx, Carousel{
		AssetCore: core,
		Status:    AggregateStatus(statuses),
		Children:  children,
	})
	if err != nil {
		return Carousel{}, err
	}

	u.emitEvent(ctx, Event{
		Type:    EventAssetCreated,
		AssetID: carousel.ID,
		ActorID: p.ID,
		Detail:  fmt.Sprintf("carousel created with %d children", len(carousel.Children)),
	})

	return carousel, nil
}

// ListVisibleCarousels returns the carousels the principal may view. For a
// non-owner, non-admin SEO specialist an extra shaping rule applies: a
// carousel is listed only when at least one child is APPROVED, and only
// APPROVED children are exposed inside it.
func (u Usecase) ListVisibleCarousels(ctx context.Context, opt ListCarouselsOption) ([]Carousel, int, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	carousels, _, err := u.repo.ListCarousels(ctx, opt)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]Carousel, 0, len(carousels))
	for _, c := range carousels {
		caps, err := u.resolveCarousel(ctx, p, c)
		if err != nil {
			return nil, 0, err
		}
		if !caps.CanView {
			continue
		}

		if p.Role == RoleSEOSpecialist && p.ID != c.UploaderID {
			approved := c.Children[:0:0]
			for _, child := range c.Children {
				if child.Status == StatusApproved {
					approved = append(approved, child)
				}
			}
			if len(approved) == 0 {
				continue
			}
			c.Children = approved
		}

		visible = append(visible, c)
	}

	return visible, len(visible), nil
}

func (u Usecase) GetVisibleCarousel(ctx context.Context, id uuid.UUID) (Carousel, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Carousel{}, err
	}

	c, err := u.repo.GetCarouselByID(ctx, id)
	if err != nil {
		return Carousel{}, err
	}

	caps, err := u.resolveCarousel(ctx, p, c)
	if err != nil {
		return Carousel{}, err
	}
	if !caps.CanView {
		return Carousel{}, ErrNotFound{ID: id, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
	}

	return c, nil
}

func (u Usecase) resolveCarousel(ctx context.Context, p Principal, c Carousel) (Capabilities, error) {
	var shared bool
	if c.Visibility == VisibilitySelectedUsers && p.ID != c.UploaderID && p.Role != RoleAdmin {
		var err error
		shared, err = u.repo.HasAssetShare(ctx, c.ID, p.ID)
		if err != nil {
			return Capabilities{}, err
		}
	}
	return ResolveCapabilities(p, c.AssetCore, c.Status, shared), nil
}

type UpdateCarouselOption struct {
	Visibility      *VisibilityLevel
	AllowedRole     *Role
	CampaignName    *string
	TargetPlatforms []string
	Tags            []string
}

// UpdateCarousel edits container metadata only. Children keep the values
// copied at creation time.
func (u Usecase) UpdateCarousel(ctx context.Context, id uuid.UUID, opt UpdateCarouselOption) (Carousel, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Carousel{}, err
	}

	c, err := u.repo.GetCarouselByID(ctx, id)
	if err != nil {
		return Carousel{}, err
	}

	caps, err := u.resolveCarousel(ctx, p, c)
	if err != nil {
		return Carousel{}, err
	}
	if !caps.CanEdit {
		return Carousel{}, ErrForbidden{ID: id, Message: "not allowed to edit carousel"}
	}

	if opt.Visibility != nil {
		if !opt.Visibility.Valid() {
			return Carousel{}, ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", *opt.Visibility)}
		}
		c.Visibility = *opt.Visibility
	}
	if opt.AllowedRole != nil {
		c.AllowedRole = *opt.AllowedRole
	}
	if c.Visibility == VisibilityRole && !c.AllowedRole.Valid() {
		return Carousel{}, ValidationError{Field: "allowed_role", Message: "ROLE visibility requires an allowed role"}
	}
	if opt.CampaignName != nil {
		c.CampaignName = *opt.CampaignName
	}
	if opt.TargetPlatforms != nil {
		c.TargetPlatforms = opt.TargetPlatforms
	}
	if opt.Tags != nil {
		c.Tags = opt.Tags
	}

	return u.repo.UpdateCarousel(ctx, c)
}

// validateChildDelete confirms the parent reference is intact and reports
// whether the carousel will be empty once the child is gone.
func (u Usecase) validateChildDelete(ctx context.Context, child Asset) (ParentAction, error) {
	c, err := u.repo.GetCarouselByID(ctx, *child.CarouselID)
	if err != nil {
		if _, ok := err.(ErrNotFound); ok {
			return ParentAction{}, ReferentialIntegrityError{
				CarouselID: *child.CarouselID,
				AssetID:    child.ID,
				Message:    "child references a missing carousel",
			}
		}
		return ParentAction{}, err
	}

	remaining := 0
	found := false
	for _, sibling := range c.Children {
		if sibling.ID == child.ID {
			found = true
			continue
		}
		remaining++
	}
	if !found {
		return ParentAction{}, ReferentialIntegrityError{
			CarouselID: c.ID,
			AssetID:    child.ID,
			Message:    "carousel does not list the child",
		}
	}

	return ParentAction{CarouselID: c.ID, Empty: remaining == 0}, nil
}

// CascadeDeletePlan returns every id removed by deleting the carousel, in
// dependency order: children first, container last.
func CascadeDeletePlan(c Carousel) uuid.UUIDs {
	ids := make(uuid.UUIDs, 0, len(c.Children)+1)
	for _, child := range c.Children {
		ids = append(ids, child.ID)
	}
	return append(ids, c.ID)
}

// DeleteCarousel removes the container and all children. Stored bytes are
// removed first; if any child's bytes cannot be removed the whole
// operation fails and no rows are touched, so a partial cascade is never
// reported as success.
func (u Usecase) DeleteCarousel(ctx context.Context, id uuid.UUID) (uuid.UUIDs, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	c, err := u.repo.GetCarouselByID(ctx, id)
	if err != nil {
		return nil, err
	}

	caps, err := u.resolveCarousel(ctx, p, c)
	if err != nil {
		return nil, err
	}
	if !caps.CanDelete {
		return nil, ErrForbidden{ID: id, Message: "not allowed to delete carousel"}
	}

	plan := CascadeDeletePlan(c)

	for _, child := range c.Children {
		if child.StorageRef == "" {
			continue
		}
		if err := u.fileStorageProvider.DeleteFile(ctx, child.StorageRef); err != nil {
			return nil, fmt.Errorf("cascade delete of carousel %s failed at child %s: %w", id, child.ID, err)
		}
	}

	childIDs := plan[:len(plan)-1]
	if err := u.repo.DeleteCarousel(ctx, id, childIDs); err != nil {
		return nil, err
	}

	for _, removed := range plan {
		u.emitEvent(ctx, Event{
			Type:    EventAssetDeleted,
			AssetID: removed,
			ActorID: p.ID,
			Detail:  fmt.Sprintf("cascade delete of carousel %s", id),
		})
	}

	return plan, nil
}

// recomputeCarouselStatus re-derives the carousel status from a fresh read
// of its children. Interleaved reviewer writes converge because each
// recompute starts from current rows, never a cached status list.
func (u Usecase) recomputeCarouselStatus(ctx context.Context, carouselID, actorID uuid.UUID) error {
	c, err := u.repo.GetCarouselByID(ctx, carouselID)
	if err != nil {
		return err
	}

	statuses := make([]Status, 0, len(c.Children))
	for _, child := range c.Children {
		statuses = append(statuses, child.Status)
	}

	next := AggregateStatus(statuses)
	if next == c.Status {
		return nil
	}

	if err := u.repo.SetCarouselStatus(ctx, carouselID, next); err != nil {
		return err
	}

	u.emitEvent(ctx, Event{
		Type:    EventCarouselStatusChanged,
		AssetID: carouselID,
		ActorID: actorID,
		Detail:  fmt.Sprintf("%s -> %s", c.Status, next),
	})

	return nil
}
