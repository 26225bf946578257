package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmart-backend-go/internal/config"
	httpapi "filmart-backend-go/internal/http"
	"filmart-backend-go/internal/logging"
	"filmart-backend-go/internal/services"
	"filmart-backend-go/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var out io.Writer = os.Stdout
	logFile, err := logging.OpenDailyFile(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		slog.Warn("file logging disabled", "dir", cfg.LogDir, "error", err)
	} else {
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: out})
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := store.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = backend.Close(closeCtx)
	}()
	if err := backend.Prepare(ctx, store.All()...); err != nil {
		return fmt.Errorf("prepare %s: %w", backend.Name(), err)
	}
	logger.Info("database connected", "backend", backend.Name())

	host, err := mediaHost(cfg)
	if err != nil {
		return fmt.Errorf("media: %w", err)
	}

	revoker, closeRevoker, err := sessionRevoker(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer closeRevoker()

	hub := services.NewEventHub()
	go hub.Run(ctx)

	svc := services.New(services.Deps{
		Backend: backend,
		Media:   services.NewMediaManager(host, cfg.UploadMaxBytes, logger),
		Tokens: services.TokenService{
			Secret:     []byte(cfg.JWTSecret),
			Issuer:     cfg.JWTIssuer,
			SessionTTL: cfg.SessionTTL,
		},
		Revoker: revoker,
		Events:  hub,
		Logger:  logger,
	})

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := svc.Accounts.EnsureSuperAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return fmt.Errorf("seed super admin: %w", err)
		}
	}

	server := httpapi.NewServer(backend, svc, cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr(), "env", cfg.Env, "media", cfg.MediaProvider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	logger.Info("shutdown complete")
	return nil
}

func mediaHost(cfg config.Config) (services.MediaHost, error) {
	if cfg.UseLocalMedia() {
		return services.NewLocalHost(cfg.MediaStoragePath, cfg.MediaPublicURL)
	}
	return services.NewCloudinaryHost(cfg.CloudinaryURL, cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
}

func sessionRevoker(ctx context.Context, cfg config.Config, logger *slog.Logger) (services.Revoker, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("session revocation kept in memory")
		return services.NewMemoryRevoker(), func() {}, nil
	}
	revoker, err := services.NewRedisRevoker(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return revoker, func() { _ = revoker.Close() }, nil
}
