package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      Role
	CompanyID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	Company *Company
}

type ListUsersOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Name      string
	Role      Role
	CompanyID uuid.UUID
}

func (u Usecase) ListUsers(ctx context.Context, opt ListUsersOption) ([]User, int, error) {
	return u.repo.ListUsers(ctx, opt)
}

func (u Usecase) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return u.repo.GetUserByID(ctx, id)
}

func (u Usecase) CreateUser(ctx context.Context, user User) (User, error) {
	if user.Role == "" {
		user.Role = RoleContentCreator
	}
	if !user.Role.Valid() {
		return User{}, ValidationError{Field: "role", Message: "unknown role"}
	}
	return u.repo.CreateUser(ctx, user)
}

func (u Usecase) UpdateUser(ctx context.Context, user User) (User, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return User{}, err
	}
	// Role and company assignments are admin operations.
	if (user.Role != "" || user.CompanyID != nil) && p.Role != RoleAdmin {
		return User{}, ErrForbidden{ID: user.ID, Message: "only admins may change role or company"}
	}
	if user.Role != "" && !user.Role.Valid() {
		return User{}, ValidationError{Field: "role", Message: "unknown role"}
	}
	return u.repo.UpdateUser(ctx, user)
}

func (u Usecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return err
	}
	if p.Role != RoleAdmin {
		return ErrForbidden{ID: id, Message: "only admins may delete users"}
	}
	return u.repo.DeleteUser(ctx, id)
}
