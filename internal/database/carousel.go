package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

// Carousel is the container row. The status column is a cache of the
// aggregate derived from the children; it is only ever written through
// SetCarouselStatus after a recompute.
type Carousel struct {
	ID              uuid.UUID      `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;index;default:'DRAFT';check:status IN ('DRAFT','PENDING_REVIEW','APPROVED','REJECTED')"`
	Visibility      string         `gorm:"column:visibility;type:varchar(20);not null;default:'UPLOADER_ONLY'"`
	AllowedRole     string         `gorm:"column:allowed_role;type:varchar(20)"`
	UploaderID      uuid.UUID      `gorm:"column:uploader_id;type:uuid;not null;index"`
	Uploader        *User          `gorm:"foreignKey:UploaderID;references:ID"`
	CompanyID       *uuid.UUID     `gorm:"column:company_id;type:uuid;index"`
	Company         *Company       `gorm:"foreignKey:CompanyID;references:ID"`
	CampaignName    string         `gorm:"column:campaign_name;type:varchar(255);index"`
	TargetPlatforms datatypes.JSON `gorm:"column:target_platforms"`
	Tags            datatypes.JSON `gorm:"column:tags"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       *gorm.DeletedAt

	Children []Asset `gorm:"foreignKey:CarouselID;references:ID"`
}

func (Carousel) TableName() string {
	return "carousels"
}

func (c Carousel) ConvertToUsecase() usecase.Carousel {
	var d *time.Time
	if c.DeletedAt != nil {
		d = &c.DeletedAt.Time
	}
	uc := usecase.Carousel{
		AssetCore: usecase.AssetCore{
			ID:              c.ID,
			UploaderID:      c.UploaderID,
			CompanyID:       c.CompanyID,
			Visibility:      usecase.VisibilityLevel(c.Visibility),
			AllowedRole:     usecase.Role(c.AllowedRole),
			CampaignName:    c.CampaignName,
			TargetPlatforms: fromJSONStrings(c.TargetPlatforms),
			Tags:            fromJSONStrings(c.Tags),
			CreatedAt:       c.CreatedAt,
			UpdatedAt:       c.UpdatedAt,
			DeletedAt:       d,
		},
		Status: usecase.Status(c.Status),
	}
	for _, child := range c.Children {
		uc.Children = append(uc.Children, child.ConvertToUsecase())
	}
	if c.Uploader != nil {
		up := c.Uploader.ConvertToUsecase()
		uc.Uploader = &up
	}
	if c.Company != nil {
		co := c.Company.ConvertToUsecase()
		uc.Company = &co
	}
	return uc
}

func (s *service) ListCarousels(ctx context.Context, opt usecase.ListCarouselsOption) ([]usecase.Carousel, int, error) {
	var (
		carousels  []Carousel
		ucarousels []usecase.Carousel
		count      int64
	)

	db := s.db.Model([]Carousel{}).WithContext(ctx)

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

	sortBy := "created_at"
	if opt.SortBy != "" {
		sortBy = opt.SortBy
	}
	sortIn := "desc"
	if opt.SortIn != "" {
		sortIn = opt.SortIn
	}

	err := db.
		Preload("Children").
		Preload("Uploader").
		Preload("Company").
		Count(&count).
		Order(sortBy + " " + sortIn).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&carousels).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, c := range carousels {
		ucarousels = append(ucarousels, c.ConvertToUsecase())
	}

	return ucarousels, int(count), nil
}

func (s *service) GetCarouselByID(ctx context.Context, id uuid.UUID) (usecase.Carousel, error) {
	var c Carousel

	err := s.db.
		WithContext(ctx).
		Preload("Children").
		Preload("Uploader").
		Preload("Company").
		Where("id = ?", id).
		First(&c).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.Carousel{}, usecase.ErrNotFound{ID: id, Code: "CAROUSEL_NOT_FOUND", Message: "carousel not found"}
		}
		return usecase.Carousel{}, err
	}

	return c.ConvertToUsecase(), nil
}

// CreateCarousel persists the container and its children in one
// transaction so a failed child insert never leaves a childless
// container behind.
func (s *service) CreateCarousel(ctx context.Context, uc usecase.Carousel) (usecase.Carousel, error) {
	c := Carousel{
		Status:          string(uc.Status),
		Visibility:      string(uc.Visibility),
		AllowedRole:     string(uc.AllowedRole),
		UploaderID:      uc.UploaderID,
		CompanyID:       uc.CompanyID,
		CampaignName:    uc.CampaignName,
		TargetPlatforms: toJSONStrings(uc.TargetPlatforms),
		Tags:            toJSONStrings(uc.Tags),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		for _, child := range uc.Children {
			a := Asset{
				Type:            string(child.Type),
				Status:          string(child.Status),
				Visibility:      string(child.Visibility),
				AllowedRole:     string(child.AllowedRole),
				UploaderID:      child.UploaderID,
				CompanyID:       child.CompanyID,
				CarouselID:      &c.ID,
				StorageRef:      child.StorageRef,
				CampaignName:    child.CampaignName,
				TargetPlatforms: toJSONStrings(child.TargetPlatforms),
				Tags:            toJSONStrings(child.Tags),
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return usecase.Carousel{}, err
	}

	return s.GetCarouselByID(ctx, c.ID)
}

func (s *service) UpdateCarousel(ctx context.Context, uc usecase.Carousel) (usecase.Carousel, error) {
	err := s.db.WithContext(ctx).
		Model(&Carousel{}).
		Where("id = ?", uc.ID).
		Updates(map[string]any{
			"visibility":       string(uc.Visibility),
			"allowed_role":     string(uc.AllowedRole),
			"campaign_name":    uc.CampaignName,
			"target_platforms": toJSONStrings(uc.TargetPlatforms),
			"tags":             toJSONStrings(uc.Tags),
		}).Error
	if err != nil {
		return usecase.Carousel{}, err
	}

	return s.GetCarouselByID(ctx, uc.ID)
}

func (s *service) SetCarouselStatus(ctx context.Context, id uuid.UUID, status usecase.Status) error {
	return s.db.WithContext(ctx).
		Model(&Carousel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

// DeleteCarousel removes the given children and then the container inside
// one transaction, children first. A child row outside the given set
// aborts the whole cascade: that means the caller planned against a stale
// child list.
func (s *service) DeleteCarousel(ctx context.Context, id uuid.UUID, childIDs uuid.UUIDs) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(childIDs) > 0 {
			if err := tx.Where("carousel_id = ? AND id IN ?", id, childIDs).Delete(&Asset{}).Error; err != nil {
				return err
			}
		}

		var remaining int64
		if err := tx.Model(&Asset{}).Where("carousel_id = ?", id).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return usecase.ReferentialIntegrityError{
				CarouselID: id,
				Message:    "carousel still has children outside the cascade plan",
			}
		}

		return tx.Delete(&Carousel{}, "id = ?", id).Error
	})
}
