package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace_backend/internal/app/di"
	"marketplace_backend/internal/app/router"
	"marketplace_backend/internal/config"
	authhandler "marketplace_backend/internal/feature/auth/transport/handler"
	authusecase "marketplace_backend/internal/feature/auth/usecase"
	listinghandler "marketplace_backend/internal/feature/listing/transport/handler"
	listingusecase "marketplace_backend/internal/feature/listing/usecase"
	"marketplace_backend/internal/platform/imagestore"
	"marketplace_backend/internal/platform/metrics"
	"marketplace_backend/internal/platform/password"
	"marketplace_backend/internal/platform/randstr"
	infraredis "marketplace_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store
	stores, err := di.NewStores(ctx, cfg.DB, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Redis
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	images, err := imagestore.NewMinioStore(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := di.NewEventPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		slog.Warn("NATS unavailable. Running without offer events.", "error", err)
		publisher, closePublisher = nil, func() {}
	}
	defer closePublisher()

	digester, err := password.New(cfg.PasswordDigest)
	if err != nil {
		return err
	}

	// wrap with the Redis cache
	listings := di.NewListingRepository(rdb, cfg.CacheTTL, stores.Listings)

	// Usecase
	authUC := authusecase.NewAuthUsecase(stores.Users, images, digester, randstr.Generate)
	catalogUC := listingusecase.NewCatalogUsecase(listings)
	listingUC := listingusecase.NewListingUsecase(listings, images, publisher)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	listingH := listinghandler.NewListingHandler(catalogUC, listingUC)

	// Router
	r := router.NewRouter(authH, listingH, authUC, metrics.New("marketplace"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "store_driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
