package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"cardapio-virtual/config"
	httpapi "cardapio-virtual/internal/api/http"
	"cardapio-virtual/internal/logging"
	"cardapio-virtual/internal/service"
	"cardapio-virtual/internal/storage"
)

// dependencies are the external connections the service runs on. Redis and
// the Kafka writer are nil when disabled.
type dependencies struct {
	db     *sql.DB
	redis  *redis.Client
	writer storage.MessageWriter
}

// newRouter wires repositories, stores and services into the HTTP router.
// The returned ranking is nil without Redis.
func newRouter(cfg *config.Config, deps dependencies, logger *logrus.Logger) (http.Handler, service.Ranking, error) {
	repo := storage.NewPostgresRepository(deps.db)

	images, err := storage.NewImageStore(cfg.Images.Dir, cfg.Images.URLPrefix)
	if err != nil {
		return nil, nil, err
	}

	var cache service.CategoryCache
	var ranking service.Ranking
	if deps.redis != nil {
		cache = storage.NewRedisCache(deps.redis, cfg.Redis.CategoriesTTL)
		ranking = storage.NewRedisRanking(deps.redis)
	}

	var publisher service.EventPublisher
	if deps.writer != nil {
		publisher = storage.NewKafkaPublisher(deps.writer)
	}

	menuService := service.NewMenuService(repo, images, cache, ranking)
	orderService := service.NewOrderService(repo, publisher, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL})
	popularityService := service.NewPopularityService(ranking, repo)

	handler := httpapi.NewHandler(menuService, orderService, popularityService, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:          logger,
		ImagesDir:       cfg.Images.Dir,
		ImagesURLPrefix: cfg.Images.URLPrefix,
		RateLimitRPS:    cfg.RateLimit.RPS,
		RateLimitBurst:  cfg.RateLimit.Burst,
	})
	return router, ranking, nil
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.GetLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg.DB)
	defer db.Close()

	if err := storage.ApplyMigrations(ctx, db); err != nil {
		logger.WithError(err).Fatal("Failed to apply migrations")
	}

	deps := dependencies{db: db}
	if cfg.Redis.Enabled() {
		deps.redis = config.MustInitRedis(cfg.Redis)
		defer deps.redis.Close()
	} else {
		logger.Info("REDIS_HOST not set, category cache and ranking disabled")
	}
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		deps.writer = writer
	} else {
		logger.Info("KAFKA_BROKER not set, order events disabled")
	}

	router, ranking, err := newRouter(cfg, deps, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build router")
	}

	var consumers sync.WaitGroup
	if cfg.Kafka.Enabled() && ranking != nil {
		reader := config.NewKafkaReader(cfg.Kafka)
		consumer := service.NewEventConsumer(reader, ranking, logger)
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			consumer.Start(ctx)
		}()
		defer reader.Close()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Cardapio service starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	consumers.Wait()
}
