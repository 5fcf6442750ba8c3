package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	cacheadapter "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/adapter"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/config"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/database"
	queueadapter "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/queue/adapter"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/realtime"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/task"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/collaborator"

	v1 "github.com/evince-dev-254/leli-rentals-sub000/cmd/api/router/v1"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found or could not be loaded", "error", err)
	}

	// Fail fast on missing configuration instead of degrading silently.
	cfg, err := config.Load()
	if err != nil {
		log.Error("startup aborted", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	var notifier collaborator.Notifier
	if cfg.NotifierURL != "" {
		notifier = collaborator.NewWebhookNotifier(cfg.NotifierURL)
		log.Info("notifier configured", "url", cfg.NotifierURL)
	} else {
		notifier = &collaborator.LogNotifier{Log: log}
		log.Warn("NOTIFIER_URL not set, running with log-only notification delivery")
	}

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.QueueConcurrency,
		map[string]int{"default": 1, "notify": 2}, log)
	if err != nil {
		log.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}
	task.RegisterNotifyMessageTask(queueServer, notifier, log)

	hub := realtime.NewHub(log)
	defer hub.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := queueServer.Run(runCtx); err != nil {
			log.Error("queue server stopped", "error", err)
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, cache, queueClient, hub, log)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}
