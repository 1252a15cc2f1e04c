package server

import (
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) RegisterUser(ctx echo.Context) error {
	var req RegisterUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	u, err := s.server.RegisterUser(ctx.Request().Context(), usecase.RegisterUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertUserFrom(u)})
}
