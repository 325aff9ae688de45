package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/exhibit-api/api/swagger"
	"github.com/noah-isme/exhibit-api/internal/handler"
	"github.com/noah-isme/exhibit-api/internal/repository"
	"github.com/noah-isme/exhibit-api/internal/server"
	"github.com/noah-isme/exhibit-api/internal/service"
	"github.com/noah-isme/exhibit-api/pkg/cache"
	"github.com/noah-isme/exhibit-api/pkg/config"
	"github.com/noah-isme/exhibit-api/pkg/database"
	"github.com/noah-isme/exhibit-api/pkg/jobs"
	"github.com/noah-isme/exhibit-api/pkg/logger"
	"github.com/noah-isme/exhibit-api/pkg/messaging"
	"github.com/noah-isme/exhibit-api/pkg/tracing"
)

// @title Virtual Exhibit Submissions API
// @version 1.0.0
// @description Moderation and publishing pipeline for museum virtual exhibits
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Env, logr)
	if err != nil {
		logr.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Discovery.CacheTTL, logr, redisClient != nil && cfg.Discovery.CacheEnabled)

	submissionRepo := repository.NewSubmissionRepository(db)
	historyRepo := repository.NewSubmissionHistoryRepository(db)
	catalogRepo := repository.NewArtifactCatalogRepository(db)

	var publisher service.EventPublisher = service.NewLogPublisher(logr)
	if cfg.Events.NSQEnabled {
		nsqPublisher, err := messaging.NewNSQPublisher(cfg.Events.NSQAddress, cfg.Events.NSQTopic, logr)
		if err != nil {
			logr.Warn("nsq unavailable, logging events instead", zap.Error(err))
		} else {
			defer nsqPublisher.Close()
			publisher = nsqPublisher
		}
	}

	events := service.NewEventService(publisher, cacheSvc, metrics, logr)
	var queue *jobs.Queue
	if cfg.Events.Enabled {
		queue = jobs.NewQueue("submission-events", events.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Events.Workers,
			MaxRetries: cfg.Events.MaxRetries,
			RetryDelay: cfg.Events.RetryDelay,
			Logger:     logr,
		})
		queue.Start(ctx)
		events.UseQueue(queue)
	}

	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer}, logr)
	submissionSvc := service.NewSubmissionService(
		submissionRepo,
		historyRepo,
		service.NewArtifactValidator(catalogRepo),
		service.NewTransitionGuard(cfg.Submissions.AllowResubmittedReview),
		nil,
		logr,
		service.WithSubmissionEvents(events),
		service.WithSubmissionCache(service.NewCacheService(cacheRepo, metrics, cfg.Catalog.AvailableCacheTTL, logr, redisClient != nil)),
		service.WithSubmissionMetrics(metrics),
		service.WithSubmissionConfig(service.SubmissionServiceConfig{
			DefaultPageSize:   cfg.Submissions.DefaultPageSize,
			MaxPageSize:       cfg.Submissions.MaxPageSize,
			MaxArtifacts:      cfg.Submissions.MaxArtifacts,
			AvailableCacheTTL: cfg.Catalog.AvailableCacheTTL,
		}),
	)
	engagementSvc := service.NewEngagementService(submissionRepo, cacheRepo, metrics, logr)
	discoverySvc := service.NewDiscoveryService(submissionRepo, engagementSvc, cacheSvc, cfg.Discovery.CacheTTL, logr)

	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := server.NewRouter(server.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		ServiceName:    cfg.Tracing.ServiceName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		EnableMetrics:  cfg.Metrics.Enabled,
		EnableTracing:  cfg.Tracing.Enabled,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         authSvc,
		Submissions:    handler.NewSubmissionHandler(submissionSvc),
		Discovery:      handler.NewDiscoveryHandler(discoverySvc, engagementSvc),
		MetricsHandler: handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown failed", zap.Error(err))
	}
	if queue != nil {
		queue.Stop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracing shutdown failed", zap.Error(err))
	}
}
