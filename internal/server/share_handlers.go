package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type AssetShare struct {
	ID        string `json:"id"`
	AssetID   string `json:"asset_id"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at,omitempty"`
	User      *User  `json:"user,omitempty"`
}

func ConvertAssetShareFrom(sh usecase.AssetShare) AssetShare {
	share := AssetShare{
		ID:        sh.ID.String(),
		AssetID:   sh.AssetID.String(),
		UserID:    sh.UserID.String(),
		CreatedAt: sh.CreatedAt.Format(time.RFC3339),
	}
	if sh.User != nil {
		u := ConvertUserFrom(*sh.User)
		share.User = &u
	}
	return share
}

type ListAssetSharesRequest struct {
	ID    string `param:"id" validate:"required,uuid"`
	Skip  int    `query:"skip"`
	Limit int    `query:"limit" validate:"required,gte=1,lte=100"`
}

func (s *Server) ListAssetShares(ctx echo.Context) error {
	var req = ListAssetSharesRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	assetID, _ := uuid.Parse(req.ID)
	list, total, err := s.server.ListAssetShares(ctx.Request().Context(), usecase.ListAssetSharesOption{
		Skip:    req.Skip,
		Limit:   req.Limit,
		AssetID: assetID,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	shares := make([]AssetShare, 0, len(list))
	for _, sh := range list {
		shares = append(shares, ConvertAssetShareFrom(sh))
	}

	return ctx.JSON(200, Res{
		Data: shares,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}

type CreateAssetShareRequest struct {
	ID     string `param:"id" validate:"required,uuid"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (s *Server) CreateAssetShare(ctx echo.Context) error {
	var req CreateAssetShareRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	assetID, _ := uuid.Parse(req.ID)
	userID, _ := uuid.Parse(req.UserID)
	sh, err := s.server.CreateAssetShare(ctx.Request().Context(), usecase.AssetShare{
		AssetID: assetID,
		UserID:  userID,
	})
	if err != nil {
		return errJSON(ctx, err)
	}

	return ctx.JSON(201, Res{Data: ConvertAssetShareFrom(sh)})
}

type DeleteAssetShareRequest struct {
	ID     string `param:"id" validate:"required,uuid"`
	UserID string `param:"userId" validate:"required,uuid"`
}

func (s *Server) DeleteAssetShare(ctx echo.Context) error {
	var req DeleteAssetShareRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	assetID, _ := uuid.Parse(req.ID)
	userID, _ := uuid.Parse(req.UserID)
	if err := s.server.DeleteAssetShare(ctx.Request().Context(), assetID, userID); err != nil {
		return errJSON(ctx, err)
	}

	return ctx.NoContent(204)
}
