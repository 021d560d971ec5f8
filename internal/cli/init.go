// Package cli holds the start-up steps shared by cmd/finovo and
// cmd/finovo-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finovo/internal/amqp"
	"finovo/internal/backend"
	"finovo/internal/cache"
	"finovo/internal/config"
	"finovo/internal/core"
	"finovo/internal/log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and exits on invalid values.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	level := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{
		Level:     level,
		Component: component,
		Handler:   log.NewHandler(os.Stdout, cfg.LogFormat, level),
	})
	log.SetDefault(logger)
	return logger
}

// OpenBackend opens the configured repository or exits.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *log.Logger) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to open repository", "backend", bcfg.Type, log.FieldError, err)
		os.Exit(1)
	}
	return result
}

// OpenRedis returns nil when REDIS_ADDR is unset and exits when Redis is
// configured but unreachable.
func OpenRedis(ctx context.Context, cfg *config.Config, logger *log.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("Redis not configured, using in-process sessions and cache")
		return nil
	}
	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Error("Failed to connect to Redis", "addr", cfg.RedisAddr, log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Connected to Redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return client
}

// OpenAMQP returns nil when AMQP_URL is unset or the broker cannot be
// reached; ledger rows are then mirrored by the periodic sweep only.
func OpenAMQP(cfg *config.Config, logger *log.Logger) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, ledger events disabled")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to connect to AMQP, ledger events disabled", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case s := <-sig:
			logger.Info("Shutdown signal received", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Fatal logs err and exits.
func Fatal(logger *log.Logger, msg string, err error) {
	logger.Error(msg, log.FieldError, err)
	os.Exit(1)
}

// maxLocalTTL bounds how long an instance serves a dashboard from its own
// LRU after another process invalidated the shared copy.
const maxLocalTTL = 30 * time.Second

// DashboardCache builds the per-process LRU, backed by Redis when client is
// not nil. Both binaries must use the same prefix.
func DashboardCache(client *redis.Client, ttl time.Duration) *cache.Tiered[core.BudgetAnalysis] {
	localTTL := ttl
	if client != nil && localTTL > maxLocalTTL {
		localTTL = maxLocalTTL
	}
	local := cache.NewLRUCache[core.BudgetAnalysis](1000, localTTL)
	if client == nil {
		return cache.NewTiered(local, nil)
	}
	return cache.NewTiered(local, cache.NewRedisCache[core.BudgetAnalysis](client, "finovo:dashboard:", ttl))
}
