package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/usecase"
)

// AssetShare backs SELECTED_USERS visibility. asset_id may reference an
// asset or a carousel container; the unique index keeps one share per
// (asset, user) pair.
type AssetShare struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	AssetID   uuid.UUID `gorm:"column:asset_id;type:uuid;not null;uniqueIndex:idx_asset_shares_asset_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_asset_shares_asset_user"`
	User      *User     `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (AssetShare) TableName() string {
	return "asset_shares"
}

func (a AssetShare) ConvertToUsecase() usecase.AssetShare {
	ua := usecase.AssetShare{
		ID:        a.ID,
		AssetID:   a.AssetID,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
	if a.User != nil {
		u := a.User.ConvertToUsecase()
		ua.User = &u
	}
	return ua
}

func (s *service) HasAssetShare(ctx context.Context, assetID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&AssetShare{}).
		Where("asset_id = ? AND user_id = ?", assetID, userID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *service) ListAssetShares(ctx context.Context, opt usecase.ListAssetSharesOption) ([]usecase.AssetShare, int, error) {
	var (
		shares  []AssetShare
		ushares []usecase.AssetShare
		count   int64
	)

	db := s.db.Model([]AssetShare{}).WithContext(ctx)

	if opt.AssetID != uuid.Nil {
		db = db.Where("asset_id = ?", opt.AssetID)
	}

	err := db.
		Preload("User").
		Count(&count).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&shares).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, sh := range shares {
		ushares = append(ushares, sh.ConvertToUsecase())
	}

	return ushares, int(count), nil
}

func (s *service) CreateAssetShare(ctx context.Context, us usecase.AssetShare) (usecase.AssetShare, error) {
	sh := AssetShare{
		AssetID: us.AssetID,
		UserID:  us.UserID,
	}

	if err := s.db.WithContext(ctx).Create(&sh).Error; err != nil {
		return usecase.AssetShare{}, err
	}

	return sh.ConvertToUsecase(), nil
}

func (s *service) DeleteAssetShare(ctx context.Context, assetID, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("asset_id = ? AND user_id = ?", assetID, userID).
		Delete(&AssetShare{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound{ID: assetID, Code: "SHARE_NOT_FOUND", Message: "share not found"}
	}
	return nil
}
