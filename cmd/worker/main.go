package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/queue"
	"github.com/markvault/markvault/internal/telemetry"
)

func main() {
	var mode = flag.String("mode", "worker", "Mode to run: 'worker', 'scheduler'")
	flag.Parse()

	level := slog.LevelInfo
	switch os.Getenv(config.ENV_KEY_LOG_LEVEL) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(telemetry.NewTraceHandler(jsonHandler))

	switch *mode {
	case "worker":
		runWorker(logger)
	case "scheduler":
		runScheduler(logger)
	default:
		logger.Error("Invalid mode. Use 'worker' or 'scheduler'", slog.String("mode", *mode))
		os.Exit(1)
	}
}

func runWorker(logger *slog.Logger) {
	logger.Info("Starting in WORKER mode...")

	worker, err := queue.NewWorker(logger)
	if err != nil {
		logger.Error("Failed to create worker", slog.String("err", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("Starting Asynq worker...")
		if err := worker.Start(); err != nil {
			logger.Error("Worker error", slog.String("err", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	worker.Stop()
	logger.Info("Worker exited properly")
}

func runScheduler(logger *slog.Logger) {
	logger.Info("Starting in SCHEDULER mode...")

	scheduler, err := queue.NewScheduler(logger)
	if err != nil {
		logger.Error("Failed to create scheduler", slog.String("err", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("Starting Asynq scheduler...")
		if err := scheduler.Start(); err != nil {
			logger.Error("Scheduler error", slog.String("err", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down scheduler...")
	scheduler.Stop()
	logger.Info("Scheduler exited properly")
}
