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
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/VarunRam7/Everstory-BE/pkg/rpc"
	"github.com/VarunRam7/Everstory-BE/pkg/telemetry"
	"github.com/VarunRam7/Everstory-BE/services/friendship/config"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/primary/events"
	rpc_adapter "github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/primary/rpc"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/secondary/clients"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/secondary/eventbroker"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/adapters/secondary/repository"
	"github.com/VarunRam7/Everstory-BE/services/friendship/internal/core/services"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, "friendship-service", cfg.OTLPEndpoint)
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

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		slog.Error("Failed to create neo4j driver", "error", err)
		os.Exit(1)
	}
	defer driver.Close(context.Background())

	if err := driver.VerifyConnectivity(ctx); err != nil {
		slog.Error("Failed to connect to Neo4j", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Connected to NATS, Postgres and Neo4j")

	// 2. Wiring
	requestRepo := repository.NewPostgresRequestRepo(pool)
	if err := requestRepo.EnsureSchema(ctx); err != nil {
		slog.Error("Follow-request schema init failed", "error", err)
		os.Exit(1)
	}

	relationRepo := repository.NewNeo4jRelationshipRepo(driver)
	if err := relationRepo.EnsureSchema(ctx); err != nil {
		slog.Warn("Graph schema init failed (might be fine if already exists)", "error", err)
	}

	broker, err := eventbroker.NewNatsBroker(nc)
	if err != nil {
		slog.Error("Failed to init event broker", "error", err)
		os.Exit(1)
	}

	rpcClient := rpc.NewClient(nc)
	identityClient := clients.NewIdentityClient(rpcClient, cfg.PeerTimeout)

	relationshipSvc := services.NewRelationshipService(relationRepo)
	requestSvc := services.NewFollowRequestService(requestRepo, relationshipSvc, identityClient, broker)

	// 3. Surface RPC
	router := rpc.NewRouter("friendship-service", cfg.RPCTimeout, rpc_adapter.MapError)
	rpc_adapter.NewServer(requestSvc, relationshipSvc).Register(router)
	if err := router.Listen(nc); err != nil {
		slog.Error("Failed to start RPC router", "error", err)
		os.Exit(1)
	}
	defer router.Close()

	// 4. Abonné de notification (rafraîchit et pousse les snapshots)
	notifier := events.NewNotifier(nc, requestSvc, cfg.PeerTimeout)
	if err := notifier.Start(ctx); err != nil {
		slog.Error("Failed to start notifier", "error", err)
		os.Exit(1)
	}
	defer notifier.Stop()

	slog.Info("🚀 Friendship Service listening", "nats", cfg.NatsURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down friendship service")
}
