package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markvault/markvault/internal/config"
	"github.com/markvault/markvault/internal/server"
	"github.com/markvault/markvault/internal/telemetry"
)

func main() {
	logger := newLogger()

	ctx := context.Background()
	otelShutdown, err := telemetry.SetupOTelSDK(ctx)
	if err != nil {
		logger.Error("Failed to set up telemetry", slog.String("err", err.Error()))
		os.Exit(1)
	}

	app, err := server.NewApp(logger)
	if err != nil {
		logger.Error("Failed to create app", slog.String("err", err.Error()))
		os.Exit(1)
	}

	go func() {
		logger.Info("API server starting", slog.String("addr", app.Addr()))
		if err := app.ListenAndServe(); err != nil {
			logger.Error("Server error", slog.String("err", err.Error()))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", slog.String("err", err.Error()))
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown error", slog.String("err", err.Error()))
	}

	logger.Info("API server exited properly")
}

func newLogger() *slog.Logger {
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
	return slog.New(telemetry.NewTraceHandler(jsonHandler))
}
