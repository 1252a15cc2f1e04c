package usecase

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrNotFound struct {
	ID      uuid.UUID
	Code    string
	Message string
}

func (e ErrNotFound) Error() string {
	return e.Message
}

type ErrForbidden struct {
	ID      uuid.UUID
	Message string
}

func (e ErrForbidden) Error() string {
	return e.Message
}

// ValidationError reports a malformed or incomplete request. It is always
// returned before any mutation has been applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidStateError reports a status precondition violation, including the
// case where a concurrent reviewer already moved the asset out of
// PENDING_REVIEW. Safe to retry after re-reading state.
type InvalidStateError struct {
	AssetID  uuid.UUID
	Expected Status
	Actual   Status
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("asset %s is %s, expected %s", e.AssetID, e.Actual, e.Expected)
}

// SelfApprovalError: a reviewer may not approve or reject their own upload.
// Permanent, not retryable.
type SelfApprovalError struct {
	AssetID    uuid.UUID
	ReviewerID uuid.UUID
}

func (e SelfApprovalError) Error() string {
	return fmt.Sprintf("reviewer %s cannot review own asset %s", e.ReviewerID, e.AssetID)
}

// MissingReasonError: rejections require a non-blank reason. Permanent.
type MissingReasonError struct {
	AssetID uuid.UUID
}

func (e MissingReasonError) Error() string {
	return fmt.Sprintf("rejection of asset %s requires a reason", e.AssetID)
}

// InvalidAssetInCarouselError names an asset in a granular carousel review
// request that is not a reviewable child of the carousel.
type InvalidAssetInCarouselError struct {
	CarouselID uuid.UUID
	AssetID    uuid.UUID
	Status     Status
}

func (e InvalidAssetInCarouselError) Error() string {
	return fmt.Sprintf("asset %s in carousel %s is not reviewable (status %s)",
		e.AssetID, e.CarouselID, e.Status)
}

// ReferentialIntegrityError reports an orphaned parent/child reference.
// This is an internal consistency bug and is surfaced loudly, never
// silently repaired.
type ReferentialIntegrityError struct {
	CarouselID uuid.UUID
	AssetID    uuid.UUID
	Message    string
}

func (e ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("referential integrity violation between carousel %s and asset %s: %s",
		e.CarouselID, e.AssetID, e.Message)
}
