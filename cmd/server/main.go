package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"cardenal_backend/internal/app/di"
	"cardenal_backend/internal/app/router"
	"cardenal_backend/internal/config"
	"cardenal_backend/internal/platform/logger"
	"cardenal_backend/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Logger.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	services, err := di.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to build services", zap.Error(err))
	}
	defer func() {
		if err := services.Close(); err != nil {
			zl.Error("failed to close storage", zap.Error(err))
		}
	}()

	// 起動時にスキーマを用意する。失敗しても最初のリクエストで再試行される
	if err := services.Schema.Ensure(ctx); err != nil {
		zl.Warn("schema not ready", zap.Error(err))
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.Auth.JWTSecret == "" {
		zl.Warn("JWT_SECRET is not set; authenticated routes will reject every request")
	}

	opts := router.Options{JWTSecret: cfg.Auth.JWTSecret}
	if cfg.Auth.AttemptsPerMinute > 0 {
		opts.AuthLimiter = ratelimiter.NewRateLimiter(cfg.Auth.AttemptsPerMinute, time.Minute)
	}

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router.NewRouter(services.Handlers, opts, zl),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("http server starting", zap.String("addr", srv.Addr), zap.String("backend", services.Backend.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server error", zap.Error(err))
		}
	}()

	waitForShutdown(zl)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http server shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
