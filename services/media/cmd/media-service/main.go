package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/pkg/telemetry"
	"github.com/VarunRam7/Everstory-BE/services/media/config"
	rpc_adapter "github.com/VarunRam7/Everstory-BE/services/media/internal/adapters/primary/rpc"
	"github.com/VarunRam7/Everstory-BE/services/media/internal/adapters/secondary/repository"
	"github.com/VarunRam7/Everstory-BE/services/media/internal/core/services"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, "media-service", cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("Failed to init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracer(context.Background())

	// 1. Connexions infra
	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		slog.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer rdb.Close()

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		slog.Warn("Redis tracing instrumentation failed", "error", err)
	}

	repo := repository.NewRedisPostRepo(rdb)
	if err := repo.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to NATS and Redis")

	// 2. Wiring
	svc := services.NewMediaService(repo)

	// 3. Surface RPC
	router := rpc.NewRouter("media-service", cfg.RPCTimeout, rpc_adapter.MapError)
	rpc_adapter.NewServer(svc).Register(router)
	if err := router.Listen(nc); err != nil {
		slog.Error("Failed to start RPC router", "error", err)
		os.Exit(1)
	}
	defer router.Close()

	slog.Info("🚀 Media Service listening", "nats", cfg.NatsURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down media service")
}
