package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/markvault/markvault/internal/usecase"
)

// HandleNotificationEmail delivers one queued decision email.
func (h *Handlers) HandleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	var payload usecase.NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid notification email payload: %w", err)
	}

	if err := h.usecase.ProcessNotificationEmail(ctx, payload); err != nil {
		h.logger.Error("failed to process notification email",
			slog.String("user_id", payload.UserID.String()),
			slog.String("err", err.Error()))
		return err
	}

	return nil
}

// HandlePendingDigest emails admins the count of assets awaiting review.
func (h *Handlers) HandlePendingDigest(ctx context.Context, _ *asynq.Task) error {
	if err := h.usecase.ProcessPendingDigest(ctx); err != nil {
		h.logger.Error("failed to process pending digest", slog.String("err", err.Error()))
		return err
	}

	return nil
}
