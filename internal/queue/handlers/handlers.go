package handlers

import (
	"log/slog"

	"github.com/markvault/markvault/internal/usecase"
)

type Handlers struct {
	usecase usecase.Usecase
	logger  *slog.Logger
}

func NewHandlers(uc usecase.Usecase, logger *slog.Logger) *Handlers {
	return &Handlers{
		usecase: uc,
		logger:  logger,
	}
}
