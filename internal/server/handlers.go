package server

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/usecase"
)

func (s *Server) HelloWorldHandler(ctx echo.Context) error {
	return ctx.JSON(200, map[string]string{"message": "Hello World"})
}

func (s *Server) healthHandler(ctx echo.Context) error {
	return ctx.JSON(200, s.server.Health())
}

// errJSON maps the engine's error taxonomy to HTTP status codes. Unknown
// errors fall through as 500 without leaking internals beyond the message.
func errJSON(ctx echo.Context, err error) error {
	var (
		notFound     usecase.ErrNotFound
		forbidden    usecase.ErrForbidden
		validation   usecase.ValidationError
		invalidState usecase.InvalidStateError
		selfApproval usecase.SelfApprovalError
		noReason     usecase.MissingReasonError
		badChild     usecase.InvalidAssetInCarouselError
		refBroken    usecase.ReferentialIntegrityError
	)

	switch {
	case errors.As(err, &notFound):
		return ctx.JSON(404, Res{Error: notFound.Code, Message: notFound.Message})
	case errors.As(err, &forbidden):
		return ctx.JSON(403, Res{Error: "FORBIDDEN", Message: forbidden.Message})
	case errors.As(err, &validation):
		return ctx.JSON(422, Res{Error: "VALIDATION_ERROR", Message: validation.Error()})
	case errors.As(err, &invalidState):
		return ctx.JSON(409, Res{Error: "INVALID_STATE", Message: invalidState.Error()})
	case errors.As(err, &selfApproval):
		return ctx.JSON(403, Res{Error: "SELF_APPROVAL", Message: selfApproval.Error()})
	case errors.As(err, &noReason):
		return ctx.JSON(422, Res{Error: "MISSING_REASON", Message: noReason.Error()})
	case errors.As(err, &badChild):
		return ctx.JSON(422, Res{Error: "INVALID_ASSET_IN_CAROUSEL", Message: badChild.Error()})
	case errors.As(err, &refBroken):
		// Internal consistency bug, surfaced loudly.
		return ctx.JSON(500, Res{Error: "REFERENTIAL_INTEGRITY", Message: refBroken.Error()})
	}

	return ctx.JSON(500, Res{Error: "INTERNAL", Message: err.Error()})
}
