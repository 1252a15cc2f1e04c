package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ApproveAssetOption optionally widens or narrows the asset's audience as
// part of the approval.
type ApproveAssetOption struct {
	Visibility  *VisibilityLevel
	AllowedRole *Role
}

// ApproveAsset moves a PENDING_REVIEW asset to APPROVED. The conditional
// status write in the repository doubles as the concurrency guard: a
// second reviewer racing on the same asset gets InvalidStateError instead
// of overwriting the first decision.
func (u Usecase) ApproveAsset(ctx context.Context, id uuid.UUID, opt ApproveAssetOption) (Asset, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Asset{}, err
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	if err := u.checkReviewable(ctx, p, a); err != nil {
		return Asset{}, err
	}
	if opt.Visibility != nil && !opt.Visibility.Valid() {
		return Asset{}, ValidationError{Field: "visibility", Message: fmt.Sprintf("unknown visibility %q", *opt.Visibility)}
	}

	approved, err := u.repo.UpdateAssetStatus(ctx, StatusUpdate{
		AssetID:     id,
		From:        StatusPendingReview,
		To:          StatusApproved,
		ReviewedBy:  p.ID,
		Visibility:  opt.Visibility,
		AllowedRole: opt.AllowedRole,
	})
	if err != nil {
		return Asset{}, err
	}

	if approved.CarouselID != nil {
		if err := u.recomputeCarouselStatus(ctx, *approved.CarouselID, p.ID); err != nil {
			return Asset{}, err
		}
	}

	u.emitEvent(ctx, Event{
		Type:    EventAssetApproved,
		AssetID: id,
		ActorID: p.ID,
		Detail:  string(approved.Visibility),
	})

	return approved, nil
}

// RejectAsset moves a PENDING_REVIEW asset to REJECTED. A non-blank reason
// is mandatory and recorded on the asset.
func (u Usecase) RejectAsset(ctx context.Context, id uuid.UUID, reason string) (Asset, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Asset{}, err
	}

	if strings.TrimSpace(reason) == "" {
		return Asset{}, MissingReasonError{AssetID: id}
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return Asset{}, err
	}

	if err := u.checkReviewable(ctx, p, a); err != nil {
		return Asset{}, err
	}

	rejected, err := u.repo.UpdateAssetStatus(ctx, StatusUpdate{
		AssetID:    id,
		From:       StatusPendingReview,
		To:         StatusRejected,
		ReviewedBy: p.ID,
		Reason:     reason,
	})
	if err != nil {
		return Asset{}, err
	}

	if rejected.CarouselID != nil {
		if err := u.recomputeCarouselStatus(ctx, *rejected.CarouselID, p.ID); err != nil {
			return Asset{}, err
		}
	}

	u.emitEvent(ctx, Event{
		Type:    EventAssetRejected,
		AssetID: id,
		ActorID: p.ID,
		Detail:  reason,
	})

	return rejected, nil
}

// checkReviewable validates the reviewer and the asset's state ahead of a
// transition. All checks run before any mutation.
func (u Usecase) checkReviewable(ctx context.Context, p Principal, a Asset) error {
	if p.ID == a.UploaderID {
		return SelfApprovalError{AssetID: a.ID, ReviewerID: p.ID}
	}

	caps, err := u.resolveAsset(ctx, p, a)
	if err != nil {
		return err
	}
	if !caps.CanApprove {
		return ErrForbidden{ID: a.ID, Message: "not allowed to review asset"}
	}

	if a.Status != StatusPendingReview {
		return InvalidStateError{AssetID: a.ID, Expected: StatusPendingReview, Actual: a.Status}
	}

	return nil
}

// ChildResult is the per-child outcome of a bulk carousel review. One
// child's failure does not roll back its siblings; partial success stays
// observable and retryable.
type ChildResult struct {
	AssetID uuid.UUID
	Status  Status
	Err     error
}

type CarouselReviewResult struct {
	Carousel Carousel
	Children []ChildResult
}

// ReviewCarouselOption selects the whole carousel or a named subset.
type ReviewCarouselOption struct {
	All      bool
	AssetIDs uuid.UUIDs

	// Approval only.
	Visibility  *VisibilityLevel
	AllowedRole *Role
}

// ApproveCarousel applies ApproveAsset to the selected children. With All,
// only PENDING_REVIEW children transition; already-APPROVED children are
// left untouched, which makes the bulk call idempotent. With a named
// subset, every named asset must be a PENDING_REVIEW child or the whole
// call fails before any mutation.
func (u Usecase) ApproveCarousel(ctx context.Context, id uuid.UUID, opt ReviewCarouselOption) (CarouselReviewResult, error) {
	return u.reviewCarousel(ctx, id, opt, "")
}

// RejectCarousel is symmetric to ApproveCarousel and requires a reason.
func (u Usecase) RejectCarousel(ctx context.Context, id uuid.UUID, reason string, opt ReviewCarouselOption) (CarouselReviewResult, error) {
	if strings.TrimSpace(reason) == "" {
		return CarouselReviewResult{}, MissingReasonError{AssetID: id}
	}
	return u.reviewCarousel(ctx, id, opt, reason)
}

func (u Usecase) reviewCarousel(ctx context.Context, id uuid.UUID, opt ReviewCarouselOption, reason string) (CarouselReviewResult, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return CarouselReviewResult{}, err
	}

	c, err := u.repo.GetCarouselByID(ctx, id)
	if err != nil {
		return CarouselReviewResult{}, err
	}

	if p.ID == c.UploaderID {
		return CarouselReviewResult{}, SelfApprovalError{AssetID: c.ID, ReviewerID: p.ID}
	}
	caps, err := u.resolveCarousel(ctx, p, c)
	if err != nil {
		return CarouselReviewResult{}, err
	}
	if !caps.CanApprove {
		return CarouselReviewResult{}, ErrForbidden{ID: id, Message: "not allowed to review carousel"}
	}
	if c.Status != StatusPendingReview {
		return CarouselReviewResult{}, InvalidStateError{AssetID: c.ID, Expected: StatusPendingReview, Actual: c.Status}
	}

	var targets []Asset
	if opt.All {
		for _, child := range c.Children {
			if child.Status == StatusPendingReview {
				targets = append(targets, child)
			}
		}
	} else {
		// Validate the whole subset before touching anything.
		for _, assetID := range opt.AssetIDs {
			idx := slices.IndexFunc(c.Children, func(a Asset) bool { return a.ID == assetID })
			if idx < 0 {
				return CarouselReviewResult{}, InvalidAssetInCarouselError{CarouselID: id, AssetID: assetID}
			}
			if c.Children[idx].Status != StatusPendingReview {
				return CarouselReviewResult{}, InvalidAssetInCarouselError{
					CarouselID: id,
					AssetID:    assetID,
					Status:     c.Children[idx].Status,
				}
			}
			targets = append(targets, c.Children[idx])
		}
	}

	to := StatusApproved
	eventType := EventAssetApproved
	if reason != "" {
		to = StatusRejected
		eventType = EventAssetRejected
	}

	results := make([]ChildResult, 0, len(targets))
	for _, child := range targets {
		updated, err := u.repo.UpdateAssetStatus(ctx, StatusUpdate{
			AssetID:     child.ID,
			From:        StatusPendingReview,
			To:          to,
			ReviewedBy:  p.ID,
			Reason:      reason,
			Visibility:  opt.Visibility,
			AllowedRole: opt.AllowedRole,
		})
		if err != nil {
			results = append(results, ChildResult{AssetID: child.ID, Status: child.Status, Err: err})
			continue
		}
		results = append(results, ChildResult{AssetID: child.ID, Status: updated.Status})

		u.emitEvent(ctx, Event{
			Type:    eventType,
			AssetID: child.ID,
			ActorID: p.ID,
			Detail:  reason,
		})
	}

	if err := u.recomputeCarouselStatus(ctx, id, p.ID); err != nil {
		return CarouselReviewResult{}, err
	}

	refreshed, err := u.repo.GetCarouselByID(ctx, id)
	if err != nil {
		return CarouselReviewResult{}, err
	}

	return CarouselReviewResult{Carousel: refreshed, Children: results}, nil
}

// ApproveCarouselAsset approves one child of a carousel: the same
// primitive as ApproveAsset, followed by the mandatory container
// recompute.
func (u Usecase) ApproveCarouselAsset(ctx context.Context, carouselID, assetID uuid.UUID, opt ApproveAssetOption) (Asset, error) {
	if err := u.checkChildOf(ctx, carouselID, assetID); err != nil {
		return Asset{}, err
	}
	return u.ApproveAsset(ctx, assetID, opt)
}

// RejectCarouselAsset rejects one child of a carousel.
func (u Usecase) RejectCarouselAsset(ctx context.Context, carouselID, assetID uuid.UUID, reason string) (Asset, error) {
	if err := u.checkChildOf(ctx, carouselID, assetID); err != nil {
		return Asset{}, err
	}
	return u.RejectAsset(ctx, assetID, reason)
}

func (u Usecase) checkChildOf(ctx context.Context, carouselID, assetID uuid.UUID) error {
	a, err := u.repo.GetAssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.CarouselID == nil || *a.CarouselID != carouselID {
		return ReferentialIntegrityError{
			CarouselID: carouselID,
			AssetID:    assetID,
			Message:    "asset is not a child of the carousel",
		}
	}
	return nil
}
