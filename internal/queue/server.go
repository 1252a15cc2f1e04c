package queue

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/database"
	"github.com/markvault/markvault/internal/email"
	"github.com/markvault/markvault/internal/filestorage"
	"github.com/markvault/markvault/internal/firebase"
	"github.com/markvault/markvault/internal/queue/handlers"
	"github.com/markvault/markvault/internal/usecase"
)

// Worker processes background tasks enqueued by the API.
type Worker struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
	service     usecase.Usecase
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     os.Getenv(config.ENV_KEY_REDIS_ADDR),
		Password: os.Getenv(config.ENV_KEY_REDIS_PASSWORD),
	}
}

func newUsecase(logger *slog.Logger) usecase.Usecase {
	repo := database.New(logger)
	fsp := filestorage.NewFromEnv()
	idp := firebase.New()
	ep := email.New(logger)
	qc := NewClient()

	return usecase.New(repo, fsp, idp, ep, qc)
}

func NewWorker(logger *slog.Logger) (*Worker, error) {
	uc := newUsecase(logger)

	concurrency := 10
	if wc := os.Getenv(config.ENV_KEY_WORKER_CONCURRENCY); wc != "" {
		if n, err := strconv.Atoi(wc); err == nil && n > 0 {
			concurrency = n
		}
	}

	asynqServer := asynq.NewServer(
		redisOpt(),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	h := handlers.NewHandlers(uc, logger)

	mux := asynq.NewServeMux()
	mux.HandleFunc(usecase.TaskNotificationEmail, h.HandleNotificationEmail)
	mux.HandleFunc(usecase.TaskPendingDigest, h.HandlePendingDigest)

	logger.Info("worker registered handlers",
		slog.String("tasks", usecase.TaskNotificationEmail+","+usecase.TaskPendingDigest))

	return &Worker{
		asynqServer: asynqServer,
		mux:         mux,
		service:     uc,
	}, nil
}

func (w *Worker) Start() error {
	return w.asynqServer.Start(w.mux)
}

func (w *Worker) Stop() {
	w.asynqServer.Shutdown()
	if err := w.service.Close(); err != nil {
		slog.Error("worker: failed to close service", slog.String("err", err.Error()))
	}
}

// Scheduler enqueues the periodic tasks the worker consumes.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	scheduler := asynq.NewScheduler(redisOpt(), nil)

	// Daily reviewer digest of assets waiting in PENDING_REVIEW.
	if _, err := scheduler.Register(
		"0 9 * * *",
		asynq.NewTask(usecase.TaskPendingDigest, nil),
	); err != nil {
		return nil, err
	}

	logger.Info("scheduler registered tasks",
		slog.String("tasks", usecase.TaskPendingDigest))

	return &Scheduler{scheduler: scheduler}, nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
}
