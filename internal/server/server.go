package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/database"
	"github.com/markvault/markvault/internal/email"
	"github.com/markvault/markvault/internal/filestorage"
	"github.com/markvault/markvault/internal/firebase"
	"github.com/markvault/markvault/internal/queue"
	"github.com/markvault/markvault/internal/usecase"
)

// Service is the engine surface the HTTP layer talks to.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	ListVisibleAssets(context.Context, usecase.ListAssetsOption) ([]usecase.Asset, int, error)
	GetVisibleAsset(context.Context, uuid.UUID) (usecase.Asset, error)
	CreateAsset(context.Context, usecase.CreateAssetOption) (usecase.Asset, error)
	UpdateAsset(context.Context, uuid.UUID, usecase.UpdateAssetOption) (usecase.Asset, error)
	DeleteAsset(context.Context, uuid.UUID) (usecase.ParentAction, error)
	ApproveAsset(context.Context, uuid.UUID, usecase.ApproveAssetOption) (usecase.Asset, error)
	RejectAsset(context.Context, uuid.UUID, string) (usecase.Asset, error)

	ListVisibleCarousels(context.Context, usecase.ListCarouselsOption) ([]usecase.Carousel, int, error)
	GetVisibleCarousel(context.Context, uuid.UUID) (usecase.Carousel, error)
	CreateCarousel(context.Context, usecase.CreateCarouselOption) (usecase.Carousel, error)
	UpdateCarousel(context.Context, uuid.UUID, usecase.UpdateCarouselOption) (usecase.Carousel, error)
	DeleteCarousel(context.Context, uuid.UUID) (uuid.UUIDs, error)
	ApproveCarousel(context.Context, uuid.UUID, usecase.ReviewCarouselOption) (usecase.CarouselReviewResult, error)
	RejectCarousel(context.Context, uuid.UUID, string, usecase.ReviewCarouselOption) (usecase.CarouselReviewResult, error)
	ApproveCarouselAsset(ctx context.Context, carouselID, assetID uuid.UUID, opt usecase.ApproveAssetOption) (usecase.Asset, error)
	RejectCarouselAsset(ctx context.Context, carouselID, assetID uuid.UUID, reason string) (usecase.Asset, error)

	ListUsers(context.Context, usecase.ListUsersOption) ([]usecase.User, int, error)
	GetUserByID(context.Context, uuid.UUID) (usecase.User, error)
	CreateUser(context.Context, usecase.User) (usecase.User, error)
	UpdateUser(context.Context, usecase.User) (usecase.User, error)
	DeleteUser(context.Context, uuid.UUID) error

	ListCompanies(context.Context, usecase.ListCompaniesOption) ([]usecase.Company, int, error)
	GetCompanyByID(context.Context, uuid.UUID) (usecase.Company, error)
	CreateCompany(context.Context, usecase.Company) (usecase.Company, error)
	UpdateCompany(context.Context, usecase.Company) (usecase.Company, error)
	DeleteCompany(context.Context, uuid.UUID) error

	ListAssetShares(context.Context, usecase.ListAssetSharesOption) ([]usecase.AssetShare, int, error)
	CreateAssetShare(context.Context, usecase.AssetShare) (usecase.AssetShare, error)
	DeleteAssetShare(ctx context.Context, assetID, userID uuid.UUID) error

	ListAuditLogs(context.Context, usecase.ListAuditLogsOption) ([]usecase.AuditLog, int, error)

	ListNotifications(context.Context, usecase.ListNotificationsOption) ([]usecase.Notification, int, int, error)
	ReadNotification(context.Context, uuid.UUID) error
	ReadAllNotifications(context.Context) error
	StreamNotifications(context.Context, uuid.UUID) (<-chan usecase.Notification, error)

	RegisterUser(context.Context, usecase.RegisterUser) (usecase.User, error)
	VerifyIDToken(context.Context, string) (string, error)
	GetAuthUserByUID(context.Context, string) (usecase.AuthUser, error)

	GetTempUploadURL(ctx context.Context, name string) (string, string, error)
	GetDownloadURL(context.Context, uuid.UUID) (string, error)
}

type Server struct {
	port int

	server    Service
	validator *validator.Validate
}

// App bundles the HTTP server with the collaborators it owns, so the
// entrypoint can shut everything down in order.
type App struct {
	server  *http.Server
	service Service
}

func NewApp(logger *slog.Logger) (*App, error) {
	repo := database.New(logger)

	fsp := filestorage.NewFromEnv()
	idp := firebase.New()
	ep := email.New(logger)
	qc := queue.NewClient()

	sv := usecase.New(repo, fsp, idp, ep, qc)
	v := validator.New()

	port, _ := strconv.Atoi(os.Getenv(config.ENV_KEY_PORT))
	s := &Server{
		port:      port,
		server:    sv,
		validator: v,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(logger),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return &App{server: httpServer, service: sv}, nil
}

func (a *App) Addr() string {
	return a.server.Addr
}

func (a *App) ListenAndServe() error {
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return err
	}
	return a.service.Close()
}
