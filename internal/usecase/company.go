package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID
	Name      string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type ListCompaniesOption struct {
	Skip   int
	Limit  int
	SortBy string
	SortIn string

	Name string
}

func (u Usecase) ListCompanies(ctx context.Context, opt ListCompaniesOption) ([]Company, int, error) {
	return u.repo.ListCompanies(ctx, opt)
}

func (u Usecase) GetCompanyByID(ctx context.Context, id uuid.UUID) (Company, error) {
	return u.repo.GetCompanyByID(ctx, id)
}

func (u Usecase) CreateCompany(ctx context.Context, c Company) (Company, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Company{}, err
	}
	if p.Role != RoleAdmin {
		return Company{}, ErrForbidden{Message: "only admins may create companies"}
	}
	return u.repo.CreateCompany(ctx, c)
}

func (u Usecase) UpdateCompany(ctx context.Context, c Company) (Company, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return Company{}, err
	}
	if p.Role != RoleAdmin {
		return Company{}, ErrForbidden{ID: c.ID, Message: "only admins may update companies"}
	}
	return u.repo.UpdateCompany(ctx, c)
}

func (u Usecase) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	p, err := principalFromContext(ctx)
	if err != nil {
		return err
	}
	if p.Role != RoleAdmin {
		return ErrForbidden{ID: id, Message: "only admins may delete companies"}
	}
	return u.repo.DeleteCompany(ctx, id)
}
