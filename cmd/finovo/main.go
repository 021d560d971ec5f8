package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finovo/internal/amqp"
	"finovo/internal/auth"
	"finovo/internal/cache"
	"finovo/internal/cli"
	apphttp "finovo/internal/http"
	"finovo/internal/log"
	"finovo/internal/retry"
	"finovo/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	be := cli.OpenBackend(ctx, cfg, logger)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Failed to close repository", log.FieldError, err)
		}
	}()
	repo := be.Repository

	checks := []apphttp.ReadyCheck{{Name: "repository", Ping: repo.Ping}}

	var sessions auth.SessionStore = auth.NewMemorySessionStore()
	rdb := cli.OpenRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb)
		checks = append(checks, apphttp.ReadyCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	var publisher amqp.Publisher
	if client := cli.OpenAMQP(cfg, logger); client != nil {
		defer client.Close()
		publisher = client
	}

	dashboardCache := cli.DashboardCache(rdb, cfg.DashboardCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(dashboardCache.Local())
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.ProfileRetryAttempts
	policy.InitialDelay = cfg.ProfileRetryDelay

	authSvc := auth.NewService(repo, sessions, cfg.SessionTTL, auth.WithLogger(logger))
	dashboard := services.NewDashboardService(repo, dashboardCache, logger)

	srv := apphttp.NewServer(apphttp.Deps{
		Auth:      authSvc,
		Profiles:  services.NewProfileService(repo, policy, publisher, dashboard, logger),
		Ledger:    services.NewLedgerService(repo, publisher, dashboard, logger),
		Dashboard: dashboard,
		Accounts:  services.NewAccountService(repo, authSvc, publisher, dashboard, logger),
		Checks:    checks,
		Logger:    logger,
	}, apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CookieSecure:       cfg.CookieSecure,
		SessionTTL:         cfg.SessionTTL,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting finovo server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err)
	}
	logger.Info("Server stopped gracefully")
}
