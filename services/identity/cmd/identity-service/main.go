package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/pkg/telemetry"
	"github.com/VarunRam7/Everstory-BE/services/identity/config"
	rpc_adapter "github.com/VarunRam7/Everstory-BE/services/identity/internal/adapters/primary/rpc"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/adapters/secondary/clients"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/adapters/secondary/repository"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/adapters/secondary/security"
	"github.com/VarunRam7/Everstory-BE/services/identity/internal/core/services"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, "identity-service", cfg.OTLPEndpoint)
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

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		slog.Error("Invalid postgres config", "error", err)
		os.Exit(1)
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		slog.Error("Failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	slog.Info("✅ Connected to NATS and Postgres")

	// 2. Wiring
	repo := repository.NewPostgresRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		slog.Error("Identity schema init failed", "error", err)
		os.Exit(1)
	}

	publicKey, err := os.ReadFile(cfg.JWTPublicKey)
	if err != nil {
		slog.Error("Failed to read JWT public key", "path", cfg.JWTPublicKey, "error", err)
		os.Exit(1)
	}
	verifier, err := security.NewJWTVerifier(publicKey)
	if err != nil {
		slog.Error("Failed to init JWT verifier", "error", err)
		os.Exit(1)
	}

	rpcClient := rpc.NewClient(nc)
	mediaClient := clients.NewMediaClient(rpcClient, cfg.PeerTimeout)
	friendshipClient := clients.NewFriendshipClient(rpcClient, cfg.PeerTimeout)

	identitySvc := services.NewIdentityService(repo, verifier)
	profileSvc := services.NewProfileService(repo, mediaClient, friendshipClient, cfg.PeerTimeout)

	// 3. Surface RPC
	router := rpc.NewRouter("identity-service", cfg.RPCTimeout, rpc_adapter.MapError)
	rpc_adapter.NewServer(identitySvc, profileSvc).Register(router)
	if err := router.Listen(nc); err != nil {
		slog.Error("Failed to start RPC router", "error", err)
		os.Exit(1)
	}
	defer router.Close()

	slog.Info("🚀 Identity Service listening", "nats", cfg.NatsURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down identity service")
}
