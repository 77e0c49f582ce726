package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"moniker/internal/audit"
	audithandler "moniker/internal/audit/handler"
	"moniker/internal/audit/publisher"
	auditmemory "moniker/internal/audit/store/memory"
	auditpg "moniker/internal/audit/store/postgres"
	"moniker/internal/platform/config"
	"moniker/internal/platform/httpserver"
	"moniker/internal/platform/logger"
	"moniker/internal/platform/postgres"
	platformredis "moniker/internal/platform/redis"
	"moniker/internal/resolution"
	resolutionhandler "moniker/internal/resolution/handler"
	"moniker/internal/resolution/metrics"
	"moniker/internal/resolution/ports"
	"moniker/internal/resolution/store/cache"
	directorymemory "moniker/internal/resolution/store/memory"
	directorypg "moniker/internal/resolution/store/postgres"
	httptransport "moniker/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in internal packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var directory ports.DirectoryStore
	var auditStore audit.Store

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		directory = directorypg.New(db)
		auditStore = auditpg.New(db)
	} else {
		// Dev mode: seeded in-memory stores, nothing to connect to.
		mem := directorymemory.New()
		seeded := directorymemory.Seed(mem)
		log.Info("running with seeded in-memory stores",
			"target_id", seeded.Target,
			"requester_id", seeded.Requester,
		)
		directory = mem
		auditStore = auditmemory.New()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		directory = cache.New(directory, redisClient, cfg.Redis.CacheTTL, log)
		log.Info("preferred-name cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	recorderOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := publisher.NewKafka(ctx, cfg.Kafka, log)
		if err != nil {
			log.Error("kafka publisher failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		recorderOpts = append(recorderOpts, audit.WithPublisher(kafka))
		log.Info("audit fan-out enabled", "topic", cfg.Kafka.AuditTopic)
	}
	recorder := audit.NewRecorder(auditStore, recorderOpts...)

	engine := resolution.NewEngine(directory, recorder,
		resolution.WithLogger(log),
		resolution.WithMetrics(metrics.New()),
	)

	router := httptransport.NewRouter(
		resolutionhandler.New(engine, log),
		audithandler.New(auditStore, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting moniker", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
