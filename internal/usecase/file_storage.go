package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/config"
)

// GetTempUploadURL returns a presigned PUT URL for a new upload, plus the
// storage reference the client passes back when creating the asset. The
// engine never sees the bytes; the confirmed reference is all it needs.
func (u Usecase) GetTempUploadURL(ctx context.Context, name string) (string, string, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return "", "", fmt.Errorf("user id not found in context")
	}
	ref := fmt.Sprintf("%s-%d/%s", userID.String()[:8], time.Now().Unix(), name)
	url, err := u.fileStorageProvider.GetTempUploadURL(ctx, ref)
	if err != nil {
		return "", "", err
	}
	return url, ref, nil
}

// GetDownloadURL returns a presigned GET URL for an asset the principal
// may download.
func (u Usecase) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return "", err
	}

	a, err := u.repo.GetAssetByID(ctx, id)
	if err != nil {
		return "", err
	}

	caps, err := u.resolveAsset(ctx, p, a)
	if err != nil {
		return "", err
	}
	if !caps.CanDownload {
		return "", ErrForbidden{ID: id, Message: "not allowed to download asset"}
	}

	return u.fileStorageProvider.GetPresignedURL(ctx, a.StorageRef)
}
