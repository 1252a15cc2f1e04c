package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

type Asset struct {
	ID              uuid.UUID      `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Type            string         `gorm:"column:type;type:varchar(20);not null;index;check:type IN ('IMAGE','VIDEO','DOCUMENT','LINK')"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;index;default:'DRAFT';check:status IN ('DRAFT','PENDING_REVIEW','APPROVED','REJECTED')"`
	Visibility      string         `gorm:"column:visibility;type:varchar(20);not null;default:'UPLOADER_ONLY'"`
	AllowedRole     string         `gorm:"column:allowed_role;type:varchar(20)"`
	UploaderID      uuid.UUID      `gorm:"column:uploader_id;type:uuid;not null;index"`
	Uploader        *User          `gorm:"foreignKey:UploaderID;references:ID"`
	CompanyID       *uuid.UUID     `gorm:"column:company_id;type:uuid;index"`
	Company         *Company       `gorm:"foreignKey:CompanyID;references:ID"`
	CarouselID      *uuid.UUID     `gorm:"column:carousel_id;type:uuid;index"`
	StorageRef      string         `gorm:"column:storage_ref;type:varchar(512)"`
	RejectionReason string         `gorm:"column:rejection_reason;type:text"`
	ReviewedBy      *uuid.UUID     `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time     `gorm:"column:reviewed_at"`
	CampaignName    string         `gorm:"column:campaign_name;type:varchar(255);index"`
	TargetPlatforms datatypes.JSON `gorm:"column:target_platforms"`
	Tags            datatypes.JSON `gorm:"column:tags"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       *gorm.DeletedAt
}

func (Asset) TableName() string {
	return "assets"
}

func (a Asset) ConvertToUsecase() usecase.Asset {
	var d *time.Time
	if a.DeletedAt != nil {
		d = &a.DeletedAt.Time
	}
	ua := usecase.Asset{
		AssetCore: usecase.AssetCore{
			ID:              a.ID,
			UploaderID:      a.UploaderID,
			CompanyID:       a.CompanyID,
			Visibility:      usecase.VisibilityLevel(a.Visibility),
			AllowedRole:     usecase.Role(a.AllowedRole),
			CampaignName:    a.CampaignName,
			TargetPlatforms: fromJSONStrings(a.TargetPlatforms),
			Tags:            fromJSONStrings(a.Tags),
			CreatedAt:       a.CreatedAt,
			UpdatedAt:       a.UpdatedAt,
			DeletedAt:       d,
		},
		Type:            usecase.AssetType(a.Type),
		Status:          usecase.Status(a.Status),
		StorageRef:      a.StorageRef,
		RejectionReason: a.RejectionReason,
		ReviewedBy:      a.ReviewedBy,
		ReviewedAt:      a.ReviewedAt,
		CarouselID:      a.CarouselID,
	}
	if a.Uploader != nil {
		up := a.Uploader.ConvertToUsecase()
		ua.Uploader = &up
	}
	if a.Company != nil {
		co := a.Company.ConvertToUsecase()
		ua.Company = &co
	}
	return ua
}

func toJSONStrings(ss []string) datatypes.JSON {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return datatypes.JSON(b)
}

func fromJSONStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var ss []string
	_ = json.Unmarshal(j, &ss)
	return ss
}

func (s *service) ListAssets(ctx context.Context, opt usecase.ListAssetsOption) ([]usecase.Asset, int, error) {
	var (
		assets  []Asset
		uassets []usecase.Asset
		count   int64
	)

	db := s.db.Model([]Asset{}).WithContext(ctx)

	if len(opt.Types) > 0 {
		db = db.Where("type IN ?", opt.Types)
	}
	if len(opt.Statuses) > 0 {
		db = db.Where("status IN ?", opt.Statuses)
	}
	if len(opt.UploaderIDs) > 0 {
		db = db.Where("uploader_id IN ?", opt.UploaderIDs)
	}
	if len(opt.CompanyIDs) > 0 {
		db = db.Where("company_id IN ?", opt.CompanyIDs)
	}
	if opt.CampaignName != "" {
		db = db.Where("campaign_name = ?", opt.CampaignName)
	}
	if opt.Tag != "" {
		db = db.Where(datatypes.JSONArrayQuery("tags").Contains(opt.Tag))
	}
	if opt.Standalone {
		db = db.Where("carousel_id IS NULL")
	}

	sortBy := "created_at"
	if opt.SortBy != "" {
		sortBy = opt.SortBy
	}
	sortIn := "desc"
	if opt.SortIn != "" {
		sortIn = opt.SortIn
	}

	err := db.
		Preload("Uploader").
		Preload("Company").
		Count(&count).
		Order(sortBy + " " + sortIn).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&assets).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, a := range assets {
		uassets = append(uassets, a.ConvertToUsecase())
	}

	return uassets, int(count), nil
}

func (s *service) GetAssetByID(ctx context.Context, id uuid.UUID) (usecase.Asset, error) {
	var a Asset

	err := s.db.
		WithContext(ctx).
		Preload("Uploader").
		Preload("Company").
		Where("id = ?", id).
		First(&a).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.Asset{}, usecase.ErrNotFound{ID: id, Code: "ASSET_NOT_FOUND", Message: "asset not found"}
		}
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

func (s *service) CreateAsset(ctx context.Context, ua usecase.Asset) (usecase.Asset, error) {
	a := Asset{
		Type:            string(ua.Type),
		Status:          string(ua.Status),
		Visibility:      string(ua.Visibility),
		AllowedRole:     string(ua.AllowedRole),
		UploaderID:      ua.UploaderID,
		CompanyID:       ua.CompanyID,
		CarouselID:      ua.CarouselID,
		StorageRef:      ua.StorageRef,
		CampaignName:    ua.CampaignName,
		TargetPlatforms: toJSONStrings(ua.TargetPlatforms),
		Tags:            toJSONStrings(ua.Tags),
	}

	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return usecase.Asset{}, err
	}

	return a.ConvertToUsecase(), nil
}

// UpdateAsset writes metadata columns only. Status columns are off limits
// here; they change exclusively through UpdateAssetStatus.
func (s *service) UpdateAsset(ctx context.Context, ua usecase.Asset) (usecase.Asset, error) {
	err := s.db.WithContext(ctx).
		Model(&Asset{}).
		Where("id = ?", ua.ID).
		Updates(map[string]any{
			"visibility":       string(ua.Visibility),
			"allowed_role":     string(ua.AllowedRole),
			"campaign_name":    ua.CampaignName,
			"target_platforms": toJSONStrings(ua.TargetPlatforms),
			"tags":             toJSONStrings(ua.Tags),
		}).Error
	if err != nil {
		return usecase.Asset{}, err
	}

	return s.GetAssetByID(ctx, ua.ID)
}

// UpdateAssetStatus is a compare-and-swap on the status column. The WHERE
// clause on the expected status makes two reviewers racing on the same
// asset serialize: the loser matches zero rows and gets InvalidStateError
// built from a fresh read.
func (s *service) UpdateAssetStatus(ctx context.Context, su usecase.StatusUpdate) (usecase.Asset, error) {
	updates := map[string]any{
		"status": string(su.To),
	}
	if su.ReviewedBy != uuid.Nil {
		now := time.Now()
		updates["reviewed_by"] = su.ReviewedBy
		updates["reviewed_at"] = &now
	}
	if su.To == usecase.StatusRejected {
		updates["rejection_reason"] = su.Reason
	}
	if su.Visibility != nil {
		updates["visibility"] = string(*su.Visibility)
	}
	if su.AllowedRole != nil {
		updates["allowed_role"] = string(*su.AllowedRole)
	}

	res := s.db.WithContext(ctx).
		Model(&Asset{}).
		Where("id = ? AND status = ?", su.AssetID, string(su.From)).
		Updates(updates)
	if res.Error != nil {
		return usecase.Asset{}, res.Error
	}

	if res.RowsAffected == 0 {
		current, err := s.GetAssetByID(ctx, su.AssetID)
		if err != nil {
			return usecase.Asset{}, err
		}
		return usecase.Asset{}, usecase.InvalidStateError{
			AssetID:  su.AssetID,
			Expected: su.From,
			Actual:   current.Status,
		}
	}

	return s.GetAssetByID(ctx, su.AssetID)
}

func (s *service) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&Asset{}, "id = ?", id).Error
}
