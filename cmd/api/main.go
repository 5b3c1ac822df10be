package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Phucht59/Face-detect/internal/api"
	"github.com/Phucht59/Face-detect/internal/config"
	"github.com/Phucht59/Face-detect/internal/database"
	"github.com/Phucht59/Face-detect/internal/encoder"
	"github.com/Phucht59/Face-detect/internal/enrollment"
	"github.com/Phucht59/Face-detect/internal/face"
	"github.com/Phucht59/Face-detect/internal/registry"
	"github.com/Phucht59/Face-detect/internal/repository"
	"github.com/Phucht59/Face-detect/internal/service"
	"github.com/Phucht59/Face-detect/internal/trainer"
	"github.com/Phucht59/Face-detect/internal/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Face Attendance API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("detector", cfg.FaceDetector),
		slog.Int("dimension", cfg.Dimension()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Schema first, pool second.
	if err := migrateUp(cfg.DatabaseURL); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	employeeRepo := repository.NewEmployeeRepository(pool)
	sampleRepo := repository.NewSampleRepository(pool)
	artifactRepo := repository.NewArtifactRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	detector, err := face.NewFaceDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}

	// Rehydrate the enrollment pool so training survives restarts.
	store := enrollment.NewStore()
	samples, err := sampleRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load enrollment samples: %w", err)
	}
	store.Replace(samples)
	logger.Info("enrollment pool rehydrated", slog.Int("samples", store.Len()))

	reg := registry.New(artifactRepo, logger)
	if err := reg.Load(ctx); err != nil {
		return fmt.Errorf("failed to load model registry: %w", err)
	}

	enc := encoder.New(detector, cfg.FaceSize)
	tr := trainer.New(trainer.Config{
		Components:            cfg.Components,
		MinSamplesPerEmployee: cfg.MinSamplesPerEmployee,
		MinThreshold:          cfg.MinThreshold,
	}, logger)

	var notifier service.RetrainNotifier
	if n := webhook.NewNotifier(cfg.WebhookURL, cfg.WebhookSecret, logger); n != nil {
		notifier = n
	}

	attendanceSvc := service.NewAttendanceService(
		enc, store, tr, reg,
		employeeRepo, sampleRepo, attendanceRepo, notifier,
		cfg.MinCheckinGap, logger,
	)
	employeeSvc := service.NewEmployeeService(employeeRepo, sampleRepo, store, logger)

	router := api.NewRouter(logger, &api.Dependencies{
		Attendance: attendanceSvc,
		Employees:  employeeSvc,
		DB:         pool,
	})
	router.Setup()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}

func migrateUp(dsn string) error {
	db, err := database.OpenForMigration(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, "attendance")
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
