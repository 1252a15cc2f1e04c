package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

type User struct {
	ID        uuid.UUID  `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string     `gorm:"column:name;type:varchar(255)"`
	Email     string     `gorm:"column:email;type:varchar(255);uniqueIndex"`
	Role      string     `gorm:"column:role;type:varchar(20);not null;default:'CONTENT_CREATOR';check:role IN ('ADMIN','CONTENT_CREATOR','SEO_SPECIALIST')"`
	CompanyID *uuid.UUID `gorm:"column:company_id;type:uuid;index"`
	Company   *Company   `gorm:"foreignKey:CompanyID;references:ID"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt
}

func (User) TableName() string {
	return "users"
}

func (u User) ConvertToUsecase() usecase.User {
	var d *time.Time
	if u.DeletedAt != nil {
		d = &u.DeletedAt.Time
	}
	uu := usecase.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      usecase.Role(u.Role),
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: d,
	}
	if u.Company != nil {
		co := u.Company.ConvertToUsecase()
		uu.Company = &co
	}
	return uu
}

func (s *service) ListUsers(ctx context.Context, opt usecase.ListUsersOption) ([]usecase.User, int, error) {
	var (
		users  []User
		uusers []usecase.User
		count  int64
	)

	db := s.db.Model([]User{}).WithContext(ctx)

	if opt.Name != "" {
		db = db.Where("name ILIKE ?", "%"+opt.Name+"%")
	}
	if opt.Role != "" {
		db = db.Where("role = ?", string(opt.Role))
	}
	if opt.CompanyID != uuid.Nil {
		db = db.Where("company_id = ?", opt.CompanyID)
	}

	err := db.
		Preload("Company").
		Count(&count).
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&users).
		Error
	if err != nil {
		return nil, 0, err
	}

	for _, u := range users {
		uusers = append(uusers, u.ConvertToUsecase())
	}

	return uusers, int(count), nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (usecase.User, error) {
	var u User

	err := s.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&u).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.User{}, usecase.ErrNotFound{ID: id, Code: "USER_NOT_FOUND", Message: "user not found"}
		}
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) CreateUser(ctx context.Context, uu usecase.User) (usecase.User, error) {
	u := User{
		Name:      uu.Name,
		Email:     uu.Email,
		Role:      string(uu.Role),
		CompanyID: uu.CompanyID,
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return usecase.User{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) UpdateUser(ctx context.Context, uu usecase.User) (usecase.User, error) {
	updates := map[string]any{}
	if uu.Name != "" {
		updates["name"] = uu.Name
	}
	if uu.Role != "" {
		updates["role"] = string(uu.Role)
	}
	if uu.CompanyID != nil {
		updates["company_id"] = uu.CompanyID
	}

	err := s.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", uu.ID).
		Updates(updates).Error
	if err != nil {
		return usecase.User{}, err
	}

	return s.GetUserByID(ctx, uu.ID)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&User{}, "id = ?", id).Error
}
