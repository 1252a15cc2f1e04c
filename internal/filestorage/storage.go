package filestorage

import (
	"os"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/usecase"
)

// NewFromEnv picks the storage backend. MinIO is the default; set
// FILE_STORAGE_DRIVER=s3 to use AWS credentials from the environment
// instead.
func NewFromEnv() usecase.FileStorageProvider {
	var (
		bucket = os.Getenv(config.ENV_KEY_MINIO_BUCKET)
		temp   = os.Getenv(config.ENV_KEY_MINIO_TEMP_PATH)
		public = os.Getenv(config.ENV_KEY_MINIO_PUBLIC_PATH)
	)

	if os.Getenv(config.ENV_KEY_FILE_STORAGE_DRIVER) == "s3" {
		return NewS3Storage(bucket, temp, public)
	}

	return NewMinIOStorage(
		bucket,
		temp,
		public,
		os.Getenv(config.ENV_KEY_MINIO_ENDPOINT),
		os.Getenv(config.ENV_KEY_MINIO_ACCESS_KEY_ID),
		os.Getenv(config.ENV_KEY_MINIO_SECRET_ACCESS_KEY),
	)
}
