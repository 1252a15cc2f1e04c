package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssetType is the closed set of standalone/child asset kinds. Carousels
// are not an asset type; they are containers modeled by Carousel.
type AssetType string

const (
	AssetTypeImage    AssetType = "IMAGE"
	AssetTypeVideo    AssetType = "VIDEO"
	AssetTypeDocument AssetType = "DOCUMENT"
	AssetTypeLink     AssetType = "LINK"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeImage, AssetTypeVideo, AssetTypeDocument, AssetTypeLink:
		return true
	}
	return false
}

// AssetCore holds the identity and audience fields shared by standalone
// assets, carousel children and carousel containers.
type AssetCore struct {
	ID              uuid.UUID
	UploaderID      uuid.UUID
	CompanyID       *uuid.UUID
	Visibility      VisibilityLevel
	AllowedRole     Role // set only when Visibility is ROLE
	CampaignName    string
	TargetPlatforms []string
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type Asset struct {
	AssetCore

	Type            AssetType
	Status          Status
	StorageRef      string
	RejectionReason string
	ReviewedBy      *uuid.UUID
	ReviewedAt      *time.Time
	CarouselID      *uuid.UUID

	// DownloadURL is a presigned link, populated only when the principal
	// may download.
	DownloadURL string

	Uploader *User
	Company  *Company
}

// StatusUpdate is the conditional status write applied by the approval
// state machine. The repository only updates the row while its status
// still equals From; a concurrent reviewer losing that race receives
// InvalidStateError instead of silently overwriting.
type StatusUpdate struct {
	AssetID     uuid.UUID
	From        Status
	To          Status
	ReviewedBy  uuid.UUID
	Reason      string
	Visibility  *VisibilityLevel
	AllowedRole *Role
}

type ListAssetsOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Types        []AssetType
	Statuses     []Status
	UploaderIDs  uuid.UUIDs
	CompanyIDs   uuid.UUIDs
	CampaignName string
	Tag          string
	// Standalone restricts the listing to assets outside any carousel.
	Standalone bool
}

// ListVisibleAssets returns the standalone assets the principal may view,
// shaped by ResolveCapabilities per entity.
func (u Usecase) ListVisibleAssets(ctx context.Context, opt ListAssetsOption) ([]Asset, int, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	opt.Standalone = true
	assets, _, err := u.repo.ListAssets(ctx, opt)
	if err != nil {
		return nil, 0, err
	}

	visible := make([]Asset, 0, len(assets))
	for _, a := range assets {
		caps, err := u.resolveAsset(ctx, p, a)
		if err != nil {
			return nil, 0, err
		}
		if !caps.CanView {
			continue
		}
		if caps.CanDownload {
			if url, err := u.fileStorageProvider.GetPresignedURL(ctx, a.StorageRef); err == nil {
				a.DownloadURL = url
			}
		}
		visible = append(visible, a)
	}

	return visible, len(visible), nil
}

// GetVisibleAsset returns the asset when the principal may view it, and
// ErrNotFound otherwise. Hidden assets are indistinguishable from missing
// ones.
func (u Usecase) GetVisibleAsset(ctx context.Context, id uuid.UUID) (Asset, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Asset{}, err
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	caps, err := u.resolveAsset(ctx, p, a)
	if err != nil {
		return Asset{}, err
	}
	if !caps.CanView {
		return Asset{}, ErrNotFound{ID: id, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
	}
	if caps.CanDownload {
		if url, err := u.fileStorageProvider.GetPresignedURL(ctx, a.StorageRef); err == nil {
			a.DownloadURL = url
		}
	}

	return a, nil
}

// resolveAsset pre-resolves the share record for SELECTED_USERS and runs
// the capability resolution.
func (u Usecase) resolveAsset(ctx context.Context, p Principal, a Asset) (Capabilities, error) {
	var shared bool
	if a.Visibility == VisibilitySelectedUsers && p.ID != a.UploaderID && p.Role != RoleAdmin {
		var err error
		shared, err = u.repo.HasAssetShare(ctx, a.ID, p.ID)
		if err != nil {
			return Capabilities{}, err
		}
	}
	return ResolveCapabilities(p, a.AssetCore, a.Status, shared), nil
}

// CreateAsset registers a standalone asset for an upload already confirmed
// by the storage collaborator. The engine never validates file bytes, only
// that a storage reference exists where one is required. Submit selects
// DRAFT or PENDING_REVIEW as the initial state.
type CreateAssetOption struct {
	Type            AssetType
	StorageRef      string
	CompanyID       *uuid.UUID
	Visibility      VisibilityLevel
	AllowedRole     Role
	CampaignName    string
	TargetPlatforms []string
	Tags            []string
	Submit          bool
}

func (u Usecase) CreateAsset(ctx context.Context, opt CreateAssetOption) (Asset, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Asset{}, err
	}

	if err := validateAssetDraft(opt); err != nil {
		return Asset{}, err
	}

	status := StatusDraft
	if opt.Submit {
		status = StatusPendingReview
	}

	ref := opt.StorageRef
	if opt.Type != AssetTypeLink {
		// Claim the uploaded temp object into the asset tree.
		dest := fmt.Sprintf("assets/%s", p.ID)
		if err := u.fileStorageProvider.MoveTempFilePublic(ctx, opt.StorageRef, dest); err != nil {
			return Asset{}, fmt.Errorf("claiming uploaded file: %w", err)
		}
		ref = fmt.Sprintf("%s/%s", dest, opt.StorageRef)
	}

	a, err := u.repo.CreateAsset(ctx, Asset{
		AssetCore: AssetCore{
			UploaderID:      p.ID,
			CompanyID:       opt.CompanyID,
			Visibility:      opt.Visibility,
			AllowedRole:     opt.AllowedRole,
			CampaignName:    opt.CampaignName,
			TargetPlatforms: opt.TargetPlatforms,
			Tags:            opt.Tags,
		},
		Type:       opt.Type,
		Status:     status,
		StorageRef: ref,
	})
	if err != nil {
		return Asset{}, err
	}

	u.emitEvent(ctx, Event{
		Type:    EventAssetCreated,
		AssetID: a.ID,
		ActorID: p.ID,
		Detail:  fmt.Sprintf("%s created as %s", a.Type, a.Status),
	})

	return a, nil
}

func validateAssetDraft(opt CreateAssetOption) error {
	if !opt.Type.Valid() {
		return ValidationError{Field: "type", Message: fmt.Sprintf("unknown asset type %q", opt.Type)}
	}
	if opt.StorageRef == "" {
		return ValidationError{Field: "storage_ref", Message: "storage reference is required"}
	}
	if !opt.Visibility.Valid() {
		return ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", opt.Visibility)}
	}
	if opt.Visibility == VisibilityRole && !opt.AllowedRole.Valid() {
		return ValidationError{Field: "allowed_role", Message: "ROLE visibility requires an allowed role"}
	}
	return nil
}

// UpdateAssetOption carries the mutable metadata of an asset. Status is
// deliberately absent: all status writes go through the approval state
// machine.
type UpdateAssetOption struct {
	Visibility      *VisibilityLevel
	AllowedRole     *Role
	CampaignName    *string
	TargetPlatforms []string
	Tags            []string
	Submit          bool
}

func (u Usecase) UpdateAsset(ctx context.Context, id uuid.UUID, opt UpdateAssetOption) (Asset, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Asset{}, err
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	caps, err := u.resolveAsset(ctx, p, a)
	if err != nil {
		return Asset{}, err
	}
	if !caps.CanEdit {
		return Asset{}, ErrForbidden{ID: id, Message: "not allowed to edit asset"}
	}

	if opt.Visibility != nil {
		if !opt.Visibility.Valid() {
			return Asset{}, ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", *opt.Visibility)}
		}
		a.Visibility = *opt.Visibility
	}
	if opt.AllowedRole != nil {
		a.AllowedRole = *opt.AllowedRole
	}
	if a.Visibility == VisibilityRole && !a.AllowedRole.Valid() {
		return Asset{}, ValidationError{Field: "allowed_role", Message: "ROLE visibility requires an allowed role"}
	}
	if opt.CampaignName != nil {
		a.CampaignName = *opt.CampaignName
	}
	if opt.TargetPlatforms != nil {
		a.TargetPlatforms = opt.TargetPlatforms
	}
	if opt.Tags != nil {
		a.Tags = opt.Tags
	}

	updated, err := u.repo.UpdateAsset(ctx, a)
	if err != nil {
		return Asset{}, err
	}

	// Submitting a draft for review is the uploader's transition, not a
	// reviewer decision, so it bypasses the reviewer-only state machine.
	if opt.Submit && updated.Status == StatusDraft {
		updated, err = u.repo.UpdateAssetStatus(ctx, StatusUpdate{
			AssetID: id,
			From:    StatusDraft,
			To:      StatusPendingReview,
		})
		if err != nil {
			return Asset{}, err
		}
		if updated.CarouselID != nil {
			if err := u.recomputeCarouselStatus(ctx, *updated.CarouselID, p.ID); err != nil {
				return Asset{}, err
			}
		}
	}

	return updated, nil
}

// DeleteAsset removes a standalone asset or a single carousel child. For a
// child, only that child is removed; siblings and the container are left
// untouched and the container status is recomputed afterwards.
func (u Usecase) DeleteAsset(ctx context.Context, id uuid.UUID) (ParentAction, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return ParentAction{}, err
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return ParentAction{}, err
	}

	caps, err := u.resolveAsset(ctx, p, a)
	if err != nil {
		return ParentAction{}, err
	}
	if !caps.CanDelete {
		return ParentAction{}, ErrForbidden{ID: id, Message: "not allowed to delete asset"}
	}

	var action ParentAction
	if a.CarouselID != nil {
		action, err = u.validateChildDelete(ctx, a)
		if err != nil {
			return ParentAction{}, err
		}
	}

	if a.Type != AssetTypeLink && a.StorageRef != "" {
		if err := u.fileStorageProvider.DeleteFile(ctx, a.StorageRef); err != nil {
			return ParentAction{}, fmt.Errorf("removing stored file: %w", err)
		}
	}

	if err := u.repo.DeleteAsset(ctx, id); err != nil {
		return ParentAction{}, err
	}

	if a.CarouselID != nil {
		if err := u.recomputeCarouselStatus(ctx, *a.CarouselID, p.ID); err != nil {
			return ParentAction{}, err
		}
	}

	u.emitEvent(ctx, Event{
		Type:    EventAssetDeleted,
		AssetID: id,
		ActorID: p.ID,
		Detail:  string(a.Type),
	})

	return action, nil
}
