package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/presenca/internal/api"
	"github.com/saturnino-fabrica-de-software/presenca/internal/attendance"
	"github.com/saturnino-fabrica-de-software/presenca/internal/capture"
	"github.com/saturnino-fabrica-de-software/presenca/internal/config"
	"github.com/saturnino-fabrica-de-software/presenca/internal/database"
	"github.com/saturnino-fabrica-de-software/presenca/internal/face"
	"github.com/saturnino-fabrica-de-software/presenca/internal/gallery"
	"github.com/saturnino-fabrica-de-software/presenca/internal/ledger"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Presença API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("extractor", cfg.ExtractorType),
	)

	// Database pool
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Descriptor extractor
	extractor, err := face.NewExtractor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	// Repositories
	identityRepo := repository.NewIdentityRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	// Services
	galleryStore := gallery.NewStore(identityRepo, extractor.Dimension())
	attendanceLedger := ledger.New(attendanceRepo)

	session := capture.NewSession(
		capture.NewV4L2Opener(time.Duration(cfg.FrameTimeoutMs)*time.Millisecond),
		cfg.CameraIndex,
		logger,
	)

	attendanceService := attendance.NewService(
		extractor,
		galleryStore,
		attendanceLedger,
		session,
		logger,
	).WithThreshold(cfg.MatchThreshold)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Gallery:    galleryStore,
		Ledger:     attendanceLedger,
		Attendance: attendanceService,
		Session:    session,
		DB:         pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
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
