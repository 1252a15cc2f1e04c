package server

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/markvault/markvault/internal/config"
)

var (
	AppEnv  = os.Getenv(config.ENV_KEY_APP_ENV)
	isLocal = AppEnv == "local"
)

func (s *Server) getUID(c echo.Context) (string, error) {

	var (
		reqClientID = c.Request().Header.Get(config.HEADER_KEY_X_CLIENT_ID)
		reqUID      = c.Request().Header.Get(config.HEADER_KEY_X_UID)
		clientID    = os.Getenv(config.ENV_KEY_CLIENT_ID)
	)

	// Trusted internal clients may impersonate via headers.
	if reqClientID != "" &&
		reqUID != "" &&
		reqClientID == clientID {
		return reqUID, nil
	}

	var auth = c.Request().Header.Get("Authorization")

	if len(auth) < len("Bearer ") {
		return "", fmt.Errorf("authorization header is required")
	}

	token := auth[len("Bearer "):]

	return s.server.VerifyIDToken(c.Request().Context(), token)
}

// AuthMiddleware checks the authorization header, verifies the token via
// the injected identity provider and loads the application user, then
// transforms the request so downstream handlers see the principal in
// context.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		var (
			ctx = c.Request().Context()
		)

		uid, err := s.getUID(c)
		if err != nil {
			return c.JSON(401, Res{
				Error:   err.Error(),
				Message: "Invalid token",
			})
		}

		au, err := s.server.GetAuthUserByUID(ctx, uid)
		if err != nil {
			return c.JSON(401, Res{
				Error:   err.Error(),
				Message: "User not found",
			})
		}
		if au.User == nil {
			return c.JSON(401, Res{Message: "User not found"})
		}

		ctx = context.WithValue(ctx, config.CTX_KEY_FB_UID, uid)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ID, au.UserID)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_ROLE, au.User.Role)
		ctx = context.WithValue(ctx, config.CTX_KEY_USER_COMPANY_ID, au.User.CompanyID)

		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
