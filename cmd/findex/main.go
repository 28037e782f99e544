package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/findex/internal/cache"
	"github.com/kailas-cloud/findex/internal/config"
	dbRedis "github.com/kailas-cloud/findex/internal/db/redis"
	logpkg "github.com/kailas-cloud/findex/internal/logger"
	"github.com/kailas-cloud/findex/internal/metrics"
	contentrepo "github.com/kailas-cloud/findex/internal/repository/content"
	chiTransport "github.com/kailas-cloud/findex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/findex/internal/transport/openai"
	"github.com/kailas-cloud/findex/internal/usecase/analytics"
	embeddinguc "github.com/kailas-cloud/findex/internal/usecase/embedding"
	searchuc "github.com/kailas-cloud/findex/internal/usecase/search"
	"github.com/kailas-cloud/findex/internal/usecase/visibility"
	"github.com/kailas-cloud/findex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting findex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.Register()

	// Composition root: embedding backend → bounded cache → provider.
	backend := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	if err := backend.HealthCheck(ctx); err != nil {
		// Non-fatal: individual requests surface their own embedding errors.
		logger.Warn("Embedding API unreachable at startup", zap.Error(err))
	}
	vectorCache := cache.NewLRU(cfg.Cache.Capacity)
	embedder := embeddinguc.New(backend, vectorCache, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Int("cache_capacity", cfg.Cache.Capacity),
	)

	repo := contentrepo.New(store, cfg.Storage.KeyPrefix)
	resolver := visibility.New(cfg.Visibility.CommunityBadges)

	recorder, err := analytics.New(&analytics.LogSink{Logger: logger}, cfg.Analytics.PoolSize, logger)
	if err != nil {
		logger.Fatal("Failed to create analytics recorder", zap.Error(err))
	}
	defer recorder.Close()

	searchSvc := searchuc.New(
		repo.Semantic(), repo.Keyword(), repo.Counts(),
		embedder, resolver, recorder, logger,
	)

	server := chiTransport.NewServer(searchSvc, store, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
