package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/config"
)

func New(
	repo Repository,
	fsp FileStorageProvider,
	idp IdentityProvider,
	ep EmailProvider,
	qc QueueClient,
) Usecase {
	return Usecase{
		repo:                repo,
		fileStorageProvider: fsp,
		identityProvider:    idp,
		emailProvider:       ep,
		queueClient:         qc,
	}
}

type Repository interface {
	Health() map[string]string
	Close() error

	ListAssets(context.Context, ListAssetsOption) ([]Asset, int, error)
	GetAssetByID(context.Context, uuid.UUID) (Asset, error)
	CreateAsset(context.Context, Asset) (Asset, error)
	UpdateAsset(context.Context, Asset) (Asset, error)
	DeleteAsset(context.Context, uuid.UUID) error
	// UpdateAssetStatus performs a conditional write guarded by the
	// asset's current status; it returns InvalidStateError when the row
	// has already left the expected status.
	UpdateAssetStatus(context.Context, StatusUpdate) (Asset, error)

	ListCarousels(context.Context, ListCarouselsOption) ([]Carousel, int, error)
	GetCarouselByID(context.Context, uuid.UUID) (Carousel, error)
	CreateCarousel(context.Context, Carousel) (Carousel, error)
	UpdateCarousel(context.Context, Carousel) (Carousel, error)
	SetCarouselStatus(context.Context, uuid.UUID, Status) error
	// DeleteCarousel removes the container and the given children in one
	// transaction, children before parent.
	DeleteCarousel(context.Context, uuid.UUID, uuid.UUIDs) error

	ListUsers(context.Context, ListUsersOption) ([]User, int, error)
	GetUserByID(context.Context, uuid.UUID) (User, error)
	CreateUser(context.Context, User) (User, error)
	UpdateUser(context.Context, User) (User, error)
	DeleteUser(context.Context, uuid.UUID) error

	ListCompanies(context.Context, ListCompaniesOption) ([]Company, int, error)
	GetCompanyByID(context.Context, uuid.UUID) (Company, error)
	CreateCompany(context.Context, Company) (Company, error)
	UpdateCompany(context.Context, Company) (Company, error)
	DeleteCompany(context.Context, uuid.UUID) error

	HasAssetShare(ctx context.Context, assetID, userID uuid.UUID) (bool, error)
	ListAssetShares(context.Context, ListAssetSharesOption) ([]AssetShare, int, error)
	CreateAssetShare(context.Context, AssetShare) (AssetShare, error)
	DeleteAssetShare(ctx context.Context, assetID, userID uuid.UUID) error

	CreateAuditLog(context.Context, AuditLog) error
	ListAuditLogs(context.Context, ListAuditLogsOption) ([]AuditLog, int, error)

	CreateNotification(context.Context, Notification) error
	ListNotifications(context.Context, ListNotificationsOption) ([]Notification, int, int, error)
	ReadNotification(context.Context, uuid.UUID) error
	ReadAllNotifications(context.Context, uuid.UUID) error
	SubscribeNotifications(context.Context, chan<- Notification) error
	UnsubscribeNotifications(context.Context, chan<- Notification) error

	CreateAuthUser(context.Context, AuthUser) (AuthUser, error)
	GetAuthUserByUID(context.Context, string) (AuthUser, error)
}

type FileStorageProvider interface {
	GetPublicURL(ctx context.Context) (string, error)
	GetTempUploadURL(ctx context.Context, name string) (string, error)
	MoveTempFilePublic(ctx context.Context, source, dest string) error
	GetPresignedURL(ctx context.Context, path string) (string, error)
	DeleteFile(ctx context.Context, path string) error
	TempPath() string
}

type IdentityProvider interface {
	CreateUser(ctx context.Context, ru RegisterUser) (string, error)
	VerifyIDToken(ctx context.Context, token string) (string, error)
}

type EmailProvider interface {
	SendEmail(ctx context.Context, email Email) error
}

type QueueClient interface {
	EnqueueTask(ctx context.Context, taskType string, payload []byte) error
}

type Usecase struct {
	repo                Repository
	fileStorageProvider FileStorageProvider
	identityProvider    IdentityProvider
	emailProvider       EmailProvider
	queueClient         QueueClient
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}

// principalFromContext assembles the authenticated principal from the
// context values set by the auth middleware.
func principalFromContext(ctx context.Context) (Principal, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return Principal{}, fmt.Errorf("user id not found in context")
	}
	role, ok := ctx.Value(config.CTX_KEY_USER_ROLE).(Role)
	if !ok {
		return Principal{}, fmt.Errorf("user role not found in context")
	}
	companyID, _ := ctx.Value(config.CTX_KEY_USER_COMPANY_ID).(*uuid.UUID)

	return Principal{ID: userID, Role: role, CompanyID: companyID}, nil
}
