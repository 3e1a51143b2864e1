package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/engine"
	"videotube/internal/handlers"
	"videotube/internal/logging"
	"videotube/internal/middleware"
	"videotube/internal/storage"
	"videotube/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	var media storage.MediaStore
	if store, err := storage.NewMinioStore(cfg.Storage); err != nil {
		log.Warn().Err(err).Msg("media storage unavailable, uploads will fail")
	} else {
		media = store
	}

	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	videoEngine := engine.NewEngine(system, db, media, metrics, engine.Options{
		PoolSize:         cfg.Server.EnginePoolSize,
		OperationTimeout: cfg.Server.RequestTimeout,
		UploadTimeout:    cfg.Server.UploadTimeout,
	})

	server := handlers.NewServer(system, videoEngine, metrics, middleware.NewAuthenticator(cfg.Auth), handlers.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		UploadTimeout:  cfg.Server.UploadTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	router := server.Routes(handlers.RouterOptions{
		CORS:               middleware.DefaultCORSConfig(cfg.AllowedOrigins),
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		MetricsEnabled:     cfg.Server.MetricsEnabled,
	})

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("db", cfg.Database.Type).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			system.Shutdown()
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	system.Shutdown()
	log.Info().Msg("server stopped")
	return nil
}

// openDatabase connects to the configured backend and prepares indexes.
func openDatabase(ctx context.Context, cfg *config.DatabaseConfig) (database.DBAdapter, error) {
	if cfg.Type == "memory" {
		log.Warn().Msg("using in-memory database, data is lost on restart")
		return database.NewMemoryDB(), nil
	}

	mongodb, err := database.NewMongoDB(ctx, cfg.URI, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := mongodb.EnsureIndexes(ctx); err != nil {
		_ = mongodb.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return mongodb, nil
}
