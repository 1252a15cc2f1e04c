package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

type AuthUser struct {
	UID       string          `gorm:"column:uid;primaryKey;type:varchar(255);"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;uniqueIndex"`
	User      *User           `gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
	DeletedAt *gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

func (a AuthUser) ConvertToUsecase() usecase.AuthUser {
	au := usecase.AuthUser{
		UID:       a.UID,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.User != nil {
		u := a.User.ConvertToUsecase()
		au.User = &u
	}
	return au
}

func (s *service) CreateAuthUser(ctx context.Context, au usecase.AuthUser) (usecase.AuthUser, error) {
	u := AuthUser{
		UID:    au.UID,
		UserID: au.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return usecase.AuthUser{}, err
	}

	return u.ConvertToUsecase(), nil
}

func (s *service) GetAuthUserByUID(ctx context.Context, uid string) (usecase.AuthUser, error) {
	var u AuthUser

	err := s.db.WithContext(ctx).
		Preload("User").
		First(&u, "uid = ?", uid).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.AuthUser{}, usecase.ErrNotFound{Code: "AUTH_USER_NOT_FOUND", Message: "auth user not found"}
		}
		return usecase.AuthUser{}, err
	}

	return u.ConvertToUsecase(), nil
}
