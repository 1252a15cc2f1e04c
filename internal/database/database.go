package database

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/markvault/markvault/internal/config"
)

// implements server/Service interface
type service struct {
	db  *gorm.DB
	hub *notificationHub
}

var (
	database = os.Getenv(config.ENV_KEY_DB_DATABASE)
	password = os.Getenv(config.ENV_KEY_DB_PASSWORD)
	username = os.Getenv(config.ENV_KEY_DB_USER)
	port     = os.Getenv(config.ENV_KEY_DB_PORT)
	host     = os.Getenv(config.ENV_KEY_DB_HOST)
)

func New(logger *slog.Logger) *service {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", username, password, host, port, database)

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: NewSlogGormLogger(logger),
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		log.Fatal(err)
	}

	db, err := gormDB.DB()
	if err != nil {
		log.Fatal(err)
	}

	var maxOpenConnections int
	if m, err := strconv.Atoi(
		os.Getenv(config.ENV_KEY_DB_MAX_OPEN_CONNECTIONS)); err == nil {
		maxOpenConnections = m
	}
	db.SetMaxOpenConns(maxOpenConnections)

	// migrate the schema
	err = gormDB.AutoMigrate(
		User{},
		AuthUser{},
		Company{},
		Carousel{},
		Asset{},
		AssetShare{},
		AuditLog{},
		Notification{},
	)
	if err != nil {
		log.Fatal(err)
	}

	// Rejections must carry a reason; enforce it at the row level too.
	_, err = db.Exec(`
        ALTER TABLE assets
        DROP CONSTRAINT IF EXISTS chk_assets_rejection_reason;
        ALTER TABLE assets
        ADD CONSTRAINT chk_assets_rejection_reason
        CHECK (status != 'REJECTED' OR rejection_reason != '');
    `)
	if err != nil {
		log.Fatal(err)
	}

	hub, err := NewNotificationHub(context.Background(), connStr)
	if err != nil {
		log.Fatal(err)
	}

	return &service{db: gormDB, hub: hub}
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	db, _ := s.db.DB()

	err := db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.Itoa(int(dbStats.WaitCount))
	stats["wait_duration"] = dbStats.WaitDuration.String()

	return stats
}

func (s *service) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
