package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/crestbank/crest-console/internal/app"
	"github.com/crestbank/crest-console/internal/mockbank"
)

type config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// RedisAddr is the token registry backend. Empty runs an embedded
	// in-process redis, enough for local development.
	RedisAddr string `envconfig:"REDIS_ADDR"`

	TokenSecret string        `envconfig:"TOKEN_SECRET" default:"bankmock-dev-secret"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"1h"`

	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stderr, cfg.LogFormat)

	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		embedded, err := miniredis.Run()
		if err != nil {
			logger.Error("start embedded redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer embedded.Close()
		redisAddr = embedded.Addr()
		logger.Info("using embedded redis", slog.String("addr", redisAddr))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	bank := mockbank.NewServer(logger, mockbank.NewStore(),
		mockbank.NewTokenRegistry(redisClient, cfg.TokenSecret, cfg.TokenTTL))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      bank.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("starting mock bank", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
