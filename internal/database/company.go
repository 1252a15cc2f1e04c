package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

type Company struct {
	ID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"`
	Website   string    `gorm:"column:website;type:varchar(255)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt
}

func (Company) TableName() string {
	return "companies"
}

func (c Company) ConvertToUsecase() usecase.Company {
	var d *time.Time
	if c.DeletedAt != nil {
		d = &c.DeletedAt.Time
	}
	return usecase.Company{
		ID:        c.ID,
		Name:      c.Name,
		Website:   c.Website,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: d,
	}
}

func (s *service) ListCompanies(ctx context.Context, opt usecase.ListCompaniesOption) ([]usecase.Company, int, error) {
	var (
		companies  []Company
		ucompanies []usecase.Company
		count      int64
	)

	db := s.db.Model([]Company{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name ILIKE ?", "%"+opt.Name+"%")
	}

	err := db.
		Count(&count).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&companies).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, c := range companies {
		ucompanies = append(ucompanies, c.ConvertToUsecase())
	}

	return ucompanies, int(count), nil
}

func (s *service) GetCompanyByID(ctx context.Context, id uuid.UUID) (usecase.Company, error) {
	var c Company

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.Company{}, usecase.ErrNotFound{ID: id, Code: "COMPANY_NOT_FOUND", Message: "company not found"}
		}
		return usecase.Company{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) CreateCompany(ctx context.Context, uc usecase.Company) (usecase.Company, error) {
	c := Company{
		Name:    uc.Name,
		Website: uc.Website,
	}

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return usecase.Company{}, err
	}

	return c.ConvertToUsecase(), nil
}

func (s *service) UpdateCompany(ctx context.Context, uc usecase.Company) (usecase.Company, error) {
	c := Company{
		ID:      uc.ID,
		Name:    uc.Name,
		Website: uc.Website,
	}

	if err := s.db.WithContext(ctx).Updates(&c).Error; err != nil {
		return usecase.Company{}, err
	}

	return s.GetCompanyByID(ctx, uc.ID)
}

func (s *service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&Company{}, "id = ?", id).Error
}
