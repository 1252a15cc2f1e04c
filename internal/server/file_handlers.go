package server

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type GetTempUploadURLRequest struct {
	Name string `query:"name" validate:"required"`
}

func (s *Server) GetTempUploadURL(ctx echo.Context) error {
	var req GetTempUploadURLRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	url, ref, err := s.server.GetTempUploadURL(ctx.Request().Context(), req.Name)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: map[string]string{
		"url":         url,
		"storage_ref": ref,
	}})
}

type GetDownloadURLRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (s *Server) GetDownloadURL(ctx echo.Context) error {
	var req GetDownloadURLRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	id, _ := uuid.Parse(req.ID)
	url, err := s.server.GetDownloadURL(ctx.Request().Context(), id)
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(200, Res{Data: map[string]string{"url": url}})
}
