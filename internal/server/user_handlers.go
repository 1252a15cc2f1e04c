package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/usecase"
)

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role,omitempty"`
	CompanyID *string  `json:"company_id,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
	Company   *Company `json:"company,omitempty"`
}

func ConvertUserFrom(u usecase.User) User {
	user := User{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
	if u.CompanyID != nil {
		id := u.CompanyID.String()
		user.CompanyID = &id
	}
	if u.Company != nil {
		c := ConvertCompanyFrom(*u.Company)
		user.Company = &c
	}
	return user
}

type ListUsersRequest struct {
	Skip      int    `query:"skip"`
	Limit     int    `query:"limit" validate:"required,gte=1,lte=100"`
	Name      string `query:"name"`
	Role      string `query:"role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CompanyID string `query:"company_id" validate:"omitempty,uuid"`
	SortBy    string `query:"sort_by" validate:"omitempty,oneof=created_at updated_at name"`
	SortIn    string `query:"sort_in" validate:"omitempty,oneof=asc desc"`
}

func (s *Server) ListUsers(ctx echo.Context) error {
	var req = ListUsersRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.ListUsersOption{
		Skip:   req.Skip,
		Limit:  req.Limit,
		Name:   req.Name,
		Role:   usecase.Role(req.Role),
		SortBy: req.SortBy,
		SortIn: req.SortIn,
	}
	if req.CompanyID != "" {
		opt.CompanyID, _ = uuid.Parse(req.CompanyID)
	}

	list, total, err := s.server.ListUsers(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	users := make([]User, 0, len(list))
	for _, u := range list {
		users = append(users, ConvertUserFrom(u))
	}

	return ctx.JSON(200, Res{
		Data: users,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type GetUserByIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetUserByID(ctx echo.Context) error {
	var req GetUserByIDRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	u, err := s.server.GetUserByID(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertUserFrom(u)})
}

type CreateUserRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

func (s *Server) CreateUser(ctx echo.Context) error {
	var req CreateUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	user := usecase.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  usecase.Role(req.Role),
	}
	if req.CompanyID != "" {
		id, _ := uuid.Parse(req.CompanyID)
		user.CompanyID = &id
	}

	u, err := s.server.CreateUser(ctx.Request().Context(), user)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertUserFrom(u)})
}

type UpdateUserRequest struct {
	ID string `param:"id" validate:"required,uuid"`

	Name      string `json:"name"`
	Role      string `json:"role" validate:"omitempty,oneof=ADMIN CONTENT_CREATOR SEO_SPECIALIST"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

func (s *Server) UpdateUser(ctx echo.Context) error {
	var req UpdateUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	user := usecase.User{
		ID:   id,
		Name: req.Name,
		Role: usecase.Role(req.Role),
	}
	if req.CompanyID != "" {
		cid, _ := uuid.Parse(req.CompanyID)
		user.CompanyID = &cid
	}

	u, err := s.server.UpdateUser(ctx.Request().Context(), user)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertUserFrom(u)})
}

type DeleteUserRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) DeleteUser(ctx echo.Context) error {
	var req DeleteUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	if err := s.server.DeleteUser(ctx.Request().Context(), id); err != nil {
		return errJSON(ctx, err)
	}

	return ctx.NoContent(204)
}

func (s *Server) GetMe(ctx echo.Context) error {
	userID, ok := ctx.Request().Context().Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return ctx.JSON(401, Res{Message: "user id is required"})
	}

	u, err := s.server.GetUserByID(ctx.Request().Context(), userID)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: ConvertUserFrom(u)})
}
