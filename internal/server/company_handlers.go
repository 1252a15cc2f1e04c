package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type Company struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Website   string `json:"website,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func ConvertCompanyFrom(c usecase.Company) Company {
	return Company{
		ID:        c.ID.String(),
		Name:      c.Name,
		Website:   c.Website,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type ListCompaniesRequest struct {
	Skip  int    `query:"skip"`
	Limit int    `query:"limit" validate:"required,gte=1,lte=100"`
	Name  string `query:"name"`
}

func (s *Server) ListCompanies(ctx echo.Context) error {
	var req = ListCompaniesRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	list, total, err := s.server.ListCompanies(ctx.Request().Context(), usecase.ListCompaniesOption{
		Skip:  req.Skip,
		Limit: req.Limit,
		Name:  req.Name,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	companies := make([]Company, 0, len(list))
	for _, c := range list {
		companies = append(companies, ConvertCompanyFrom(c))
	}

	return ctx.JSON(200, Res{
		Data: companies,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type GetCompanyByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetCompanyByID(ctx echo.Context) error {
	var req GetCompanyByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	c, err := s.server.GetCompanyByID(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertCompanyFrom(c)})
}

type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required"`
	Website string `json:"website" validate:"omitempty,url"`
}

func (s *Server) CreateCompany(ctx echo.Context) error {
	var req CreateCompanyRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	c, err := s.server.CreateCompany(ctx.Request().Context(), usecase.Company{
		Name:    req.Name,
		Website: req.Website,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertCompanyFrom(c)})
}

type UpdateCompanyRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Name    string `json:"name"`
	Website string `json:"website" validate:"omitempty,url"`
}

func (s *Server) UpdateCompany(ctx echo.Context) error {
	var req UpdateCompanyRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	c, err := s.server.UpdateCompany(ctx.Request().Context(), usecase.Company{
		ID:      id,
		Name:    req.Name,
		Website: req.Website,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertCompanyFrom(c)})
}

type DeleteCompanyRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) DeleteCompany(ctx echo.Context) error {
	var req DeleteCompanyRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	if err := s.server.DeleteCompany(ctx.Request().Context(), id); err != nil {
		return errJSON(ctx, err)
	}

	return ctx.NoContent(204)
}
