package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/application"
	"github.com/iskra-app/backend/internal/cache"
	"github.com/iskra-app/backend/internal/config"
	"github.com/iskra-app/backend/internal/directory"
	"github.com/iskra-app/backend/internal/handlers"
	"github.com/iskra-app/backend/internal/kafka"
	"github.com/iskra-app/backend/internal/observability"
	"github.com/iskra-app/backend/internal/outbox"
	"github.com/iskra-app/backend/internal/realtime"
	"github.com/iskra-app/backend/internal/repository/postgres"
	"github.com/iskra-app/backend/internal/router"
	"github.com/iskra-app/backend/internal/tx"

	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.ServiceName)
	log := observability.Log

	if cfg.TracingOn {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	instanceID := cfg.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	// Redis is optional: without it the hub fans out to this instance only
	// and conversation reads skip the cache.
	var cacheClient *cache.Cache
	if cfg.RedisAddr != "" {
		cacheClient = cache.New(cfg.RedisAddr)
		defer cacheClient.Client.Close()
	}

	repo := &postgres.Repository{DB: db, Cache: cacheClient}
	txMgr := &tx.Manager{DB: db}
	dir := &directory.Postgres{DB: db}

	hub := realtime.NewHub()
	defer hub.CloseAll()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cacheClient != nil {
		relay := realtime.NewRelay(cacheClient.Client, instanceID, hub)
		hub.UseRelay(relay)
		relay.Subscribe(ctx)
	}

	app := application.New(repo, txMgr, dir, hub, log)

	if cfg.OutboxOn && len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()

		worker := &outbox.Worker{
			DB:        db,
			Producer:  producer,
			Topic:     cfg.KafkaTopic,
			BatchSize: 100,
			PollDelay: 2 * time.Second,
		}
		go worker.Start(ctx)
	}

	msgH := handlers.NewMessagingHandler(app)
	likeH := handlers.NewLikeHandler(app)
	wsH := realtime.NewHandler(hub, app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.New(msgH, likeH, wsH, db, cfg.JWTSecret, cfg.ServiceName),
	}

	go func() {
		log.Info("HTTP server started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", zap.Error(err))
	}
}
