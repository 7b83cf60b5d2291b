package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CurrentFM/cache"
	"CurrentFM/config"
	"CurrentFM/core/auth"
	"CurrentFM/db"
	"CurrentFM/ingest"
	"CurrentFM/logger"
	"CurrentFM/model"
	"CurrentFM/repository"
	"CurrentFM/storage"
)

// Start brings up storage, database, cache, the ingest listener, and the
// HTTP API, then blocks until shutdown.
func Start() {
	cfg := config.Load()

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.Close()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.AutoMigrate(&model.Track{}, &model.User{}); err != nil {
		logger.Fatal("failed to migrate schema", logger.ErrorField(err))
	}

	minioClient := storage.GetMinioClient()
	store := storage.NewMinioStore(minioClient)
	trackRepo := repository.NewTrackRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	trackCache := cache.NewTrackCache(db.RedisClient)
	secrets := auth.StaticSecret(cfg.JWTSecret)
	hub := NewIngestHub()

	apiHandler := NewAPIHandler(cfg, trackRepo, userRepo, trackCache, secrets, minioClient)

	// Ingest runs alongside the API: new raw objects flow through the
	// pipeline, and outcomes reach websocket clients and drop the listing
	// cache.
	transcoder := ingest.NewFFmpegTranscoder(cfg.FFmpegPath, cfg.AudioBitrate)
	resolver := ingest.NewMetadataResolver(store, ingest.RetryPolicy{
		MaxAttempts: cfg.MetaMaxAttempts,
		Delay:       cfg.MetaRetryDelay,
	})
	artResolver := ingest.NewArtResolver(store, transcoder, cfg.RawBucket, cfg.MediaBucket)
	pipeline := ingest.NewPipeline(store, transcoder, resolver, artResolver, trackRepo, cfg.RawBucket, cfg.MediaBucket)
	pipeline.OnResult(func(result ingest.Result) {
		hub.Broadcast(result)
		if result.Status == ingest.StatusIngested {
			trackCache.Invalidate(context.Background())
		}
	})

	listenCtx, cancelListen := context.WithCancel(context.Background())
	defer cancelListen()
	go func() {
		if err := pipeline.Listen(listenCtx, minioClient, cfg.RawBucket); err != nil && listenCtx.Err() == nil {
			logger.Error("ingest listener stopped", logger.ErrorField(err))
		}
	}()

	router := newRouter(apiHandler, hub)
	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.ServerAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancelListen()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", logger.ErrorField(err))
	}
}
