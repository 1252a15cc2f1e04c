package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

type AuditLog struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	ActorID   string `json:"actor_id"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListAuditLogsRequest struct {
	Skip      int    `query:"skip"`
	Limit     int    `query:"limit" validate:"required,gte=1,lte=100"`
	AssetID   string `query:"asset_id" validate:"omitempty,uuid"`
	ActorID   string `query:"actor_id" validate:"omitempty,uuid"`
	EventType string `query:"event_type" validate:"omitempty,oneof=ASSET_CREATED ASSET_APPROVED ASSET_REJECTED ASSET_DELETED CAROUSEL_STATUS_CHANGED"`
}

func (s *Server) ListAuditLogs(ctx echo.Context) error {
	var req = ListAuditLogsRequest{Limit: 20}
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, map[string]string{"error": err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, map[string]string{"error": err.Error()})
	}

	opt := usecase.ListAuditLogsOption{
		Skip:  req.Skip,
		Limit: req.Limit,
	}
	if req.AssetID != "" {
		id, _ := uuid.Parse(req.AssetID)
		opt.AssetIDs = append(opt.AssetIDs, id)
	}
	if req.ActorID != "" {
		id, _ := uuid.Parse(req.ActorID)
		opt.ActorIDs = append(opt.ActorIDs, id)
	}
	if req.EventType != "" {
		opt.EventTypes = append(opt.EventTypes, usecase.EventType(req.EventType))
	}

	list, total, err := s.server.ListAuditLogs(ctx.Request().Context(), opt)
	if err != nil {
		return errJSON(ctx, err)
	}

	logs := make([]AuditLog, 0, len(list))
	for _, l := range list {
		logs = append(logs, AuditLog{
			ID:        l.ID.String(),
			EventType: string(l.EventType),
			AssetID:   l.AssetID.String(),
			ActorID:   l.ActorID.String(),
			Detail:    l.Detail,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}

	return ctx.JSON(200, Res{
		Data: logs,
		Meta: &Meta{
			Total: total,
			Skip:  req.Skip,
			Limit: req.Limit,
		},
	})
}
