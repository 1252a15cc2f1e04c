package config

// Header constants.
const (
	HEADER_KEY_X_UID       = "X-Uid"
	HEADER_KEY_X_CLIENT_ID = "X-Client-Id"
)

// Environment variable names.
const (
	ENV_KEY_APP_ENV   = "APP_ENV"
	ENV_KEY_PORT      = "PORT"
	ENV_KEY_CLIENT_ID = "CLIENT_ID"
	ENV_KEY_LOG_LEVEL = "LOG_LEVEL"

	ENV_KEY_DB_DATABASE             = "DB_DATABASE"
	ENV_KEY_DB_PASSWORD             = "DB_PASSWORD"
	ENV_KEY_DB_USER                 = "DB_USER"
	ENV_KEY_DB_PORT                 = "DB_PORT"
	ENV_KEY_DB_HOST                 = "DB_HOST"
	ENV_KEY_DB_MAX_OPEN_CONNECTIONS = "DB_MAX_OPEN_CONNECTIONS"

	ENV_KEY_REDIS_ADDR     = "REDIS_ADDR"
	ENV_KEY_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_KEY_WORKER_CONCURRENCY = "WORKER_CONCURRENCY"

	ENV_KEY_FILE_STORAGE_DRIVER = "FILE_STORAGE_DRIVER"

	ENV_KEY_MINIO_BUCKET            = "MINIO_BUCKET"
	ENV_KEY_MINIO_ENDPOINT          = "MINIO_ENDPOINT"
	ENV_KEY_MINIO_ACCESS_KEY_ID     = "MINIO_ACCESS_KEY_ID"
	ENV_KEY_MINIO_SECRET_ACCESS_KEY = "MINIO_SECRET_ACCESS_KEY"
	ENV_KEY_MINIO_TEMP_PATH         = "MINIO_TEMP_PATH"
	ENV_KEY_MINIO_PUBLIC_PATH       = "MINIO_PUBLIC_PATH"

	ENV_KEY_SMTP_HOST     = "SMTP_HOST"
	ENV_KEY_SMTP_PORT     = "SMTP_PORT"
	ENV_KEY_SMTP_USER     = "SMTP_USER"
	ENV_KEY_SMTP_PASSWORD = "SMTP_PASSWORD"
	ENV_KEY_SMTP_FROM     = "SMTP_FROM"

	ENV_KEY_FIREBASE_SERVICE_ACCOUNT_KEY_PATH = "FIREBASE_SERVICE_ACCOUNT_KEY_PATH"

	ENV_KEY_OTEL_EXPORTER_OTLP_ENDPOINT = "OTEL_EXPORTER_OTLP_ENDPOINT"
	ENV_KEY_OTEL_SERVICE_NAME           = "OTEL_SERVICE_NAME"
)

type ContextKey uint

const (
	_ ContextKey = iota
	CTX_KEY_USER_ID
	CTX_KEY_USER_ROLE
	CTX_KEY_USER_COMPANY_ID
	CTX_KEY_FB_UID
)

const (
	PRESIGN_URL_EXPIRE_MINUTES = 15
)
