package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/slug-shortener/internal/config"
	"github.com/mmeshcher/slug-shortener/internal/handler"
	"github.com/mmeshcher/slug-shortener/internal/repository"
	"github.com/mmeshcher/slug-shortener/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	sugar.Infow(
		"Starting URL shortener service",
	)

	cfg, err := config.ParseFlags()
	if err != nil {
		sugar.Fatalw("Configuration error",
			"error", err.Error())
	}

	sugar.Infow(
		"Configuration loaded",
		"server_address", cfg.ServerAddress,
		"base_url", cfg.BaseURL,
		"storage", cfg.Storage(),
		"request_timeout", cfg.RequestTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newLinkStore(ctx, cfg, logger)
	if err != nil {
		sugar.Fatalw("Failed to initialize link store",
			"storage", cfg.Storage(),
			"error", err.Error())
	}

	shortenerService := service.NewShortenerService(store, cfg.BaseURL, logger,
		service.WithSlugLength(cfg.SlugLength),
		service.WithMaxAttempts(cfg.SlugMaxAttempts),
	)
	defer func() {
		if err := shortenerService.Close(); err != nil {
			sugar.Errorw("Failed to close link store", "error", err.Error())
		}
	}()

	h := handler.NewHandler(shortenerService, logger,
		handler.WithRequestTimeout(cfg.RequestTimeout),
		handler.WithAllowedOrigins(cfg.CORSAllowedOrigins),
	)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow(
			"Server starting",
			"address", cfg.ServerAddress,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sugar.Infow("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw(err.Error(), "event", "server stopped")
		return
	}

	sugar.Infow("Server stopped")
}

func newLinkStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.LinkStore, error) {
	switch cfg.Storage() {
	case "postgres":
		return repository.NewPostgresRepository(ctx, cfg.DatabaseDSN, cfg.MigrationsPath, logger)
	case "sqlite":
		return repository.NewSQLiteRepository(ctx, cfg.SQLitePath, logger)
	case "file":
		return repository.NewMemoryRepository(cfg.FileStoragePath, logger)
	default:
		return repository.NewMemoryRepository("", logger)
	}
}
