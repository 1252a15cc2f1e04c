package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func (s *Server) RegisterRoutes(logger *slog.Logger) http.Handler {
	e := echo.New()
	e.Use(NewEchoLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(otelecho.Middleware("markvault", otelecho.WithSkipper(skipper)))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api", s.HelloWorldHandler)

	e.GET("/api/health", s.healthHandler)

	e.GET("/api/websocket", s.websocketHandler, s.AuthMiddleware)

	var assetGroup = e.Group("/api/v1/assets", s.AuthMiddleware)
	assetGroup.GET("", s.ListAssets)
	assetGroup.POST("", s.CreateAsset)
	assetGroup.GET("/:id", s.GetAssetByID)
	assetGroup.PUT("/:id", s.UpdateAsset)
	assetGroup.DELETE("/:id", s.DeleteAsset)
	assetGroup.POST("/:id/approve", s.ApproveAsset)
	assetGroup.POST("/:id/reject", s.RejectAsset)
	assetGroup.GET("/:id/download", s.GetDownloadURL)
	assetGroup.GET("/:id/shares", s.ListAssetShares)
	assetGroup.POST("/:id/shares", s.CreateAssetShare)
	assetGroup.DELETE("/:id/shares/:userId", s.DeleteAssetShare)

	var carouselGroup = e.Group("/api/v1/carousels", s.AuthMiddleware)
	carouselGroup.GET("", s.ListCarousels)
	carouselGroup.POST("", s.CreateCarousel)
	carouselGroup.GET("/:id", s.GetCarouselByID)
	carouselGroup.PUT("/:id", s.UpdateCarousel)
	carouselGroup.DELETE("/:id", s.DeleteCarousel)
	carouselGroup.POST("/:id/approve", s.ApproveCarousel)
	carouselGroup.POST("/:id/reject", s.RejectCarousel)
	carouselGroup.POST("/:id/assets/:assetId/approve", s.ApproveCarouselAsset)
	carouselGroup.POST("/:id/assets/:assetId/reject", s.RejectCarouselAsset)
	carouselGroup.DELETE("/:id/assets/:assetId", s.DeleteCarouselAsset)

	var userGroup = e.Group("/api/v1/users", s.AuthMiddleware)
	userGroup.GET("", s.ListUsers)
	userGroup.POST("", s.CreateUser)
	userGroup.GET("/me", s.GetMe)
	userGroup.GET("/:id", s.GetUserByID)
	userGroup.PUT("/:id", s.UpdateUser)
	userGroup.DELETE("/:id", s.DeleteUser)

	var companyGroup = e.Group("/api/v1/companies", s.AuthMiddleware)
	companyGroup.GET("", s.ListCompanies)
	companyGroup.POST("", s.CreateCompany)
	companyGroup.GET("/:id", s.GetCompanyByID)
	companyGroup.PUT("/:id", s.UpdateCompany)
	companyGroup.DELETE("/:id", s.DeleteCompany)

	var notificationGroup = e.Group("/api/v1/notifications", s.AuthMiddleware)
	notificationGroup.GET("", s.ListNotifications)
	notificationGroup.GET("/stream", s.StreamNotifications)
	notificationGroup.PATCH("/read", s.ReadAllNotifications)
	notificationGroup.PATCH("/:id/read", s.ReadNotification)

	var auditGroup = e.Group("/api/v1/audit-logs", s.AuthMiddleware)
	auditGroup.GET("", s.ListAuditLogs)

	var fileGroup = e.Group("/api/v1/files", s.AuthMiddleware)
	fileGroup.GET("/upload-url", s.GetTempUploadURL)

	var authGroup = e.Group("/api/v1/auth")
	authGroup.POST("/register", s.RegisterUser)

	return e
}
