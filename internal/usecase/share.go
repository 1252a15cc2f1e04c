package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssetShare grants a single user view access to an asset or carousel
// published with SELECTED_USERS visibility. The visibility resolver only
// consumes the pre-resolved existence of a share.
type AssetShare struct {
	ID        uuid.UUID
	AssetID   uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time

	User *User
}

type ListAssetSharesOption struct {
	Skip  int
	Limit int

	AssetID uuid.UUID
}

func (u Usecase) ListAssetShares(ctx context.Context, opt ListAssetSharesOption) ([]AssetShare, int, error) {
	if err := u.checkShareManager(ctx, opt.AssetID); err != nil {
		return nil, 0, err
	}
	return u.repo.ListAssetShares(ctx, opt)
}

func (u Usecase) CreateAssetShare(ctx context.Context, share AssetShare) (AssetShare, error) {
	if err := u.checkShareManager(ctx, share.AssetID); err != nil {
		return AssetShare{}, err
	}
	if _, err := u.repo.GetUserByID(ctx, share.UserID); err != nil {
		return AssetShare{}, err
	}
	return u.repo.CreateAssetShare(ctx, share)
}

func (u Usecase) DeleteAssetShare(ctx context.Context, assetID, userID uuid.UUID) error {
	if err := u.checkShareManager(ctx, assetID); err != nil {
		return err
	}
	return u.repo.DeleteAssetShare(ctx, assetID, userID)
}

// checkShareManager allows the uploader and admins to manage shares. The
// target may be a standalone asset or a carousel container.
func (u Usecase) checkShareManager(ctx context.Context, assetID uuid.UUID) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return err
	}
	if p.Role == RoleAdmin {
		return nil
	}

	if a, err := u.repo.GetAssetByID(ctx, assetID); err == nil {
		if a.UploaderID == p.ID {
			return nil
		}
		return ErrForbidden{ID: assetID, Message: "not allowed to manage shares"}
	}

	c, err := u.repo.GetCarouselByID(ctx, assetID)
	if err != nil {
		return err
	}
	if c.UploaderID != p.ID {
		return ErrForbidden{ID: assetID, Message: "not allowed to manage shares"}
	}
	return nil
}
