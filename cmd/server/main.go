package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/filmgraph/config"
	"github.com/d60-Lab/filmgraph/internal/api"
	"github.com/d60-Lab/filmgraph/internal/api/handler"
	"github.com/d60-Lab/filmgraph/internal/repository"
	"github.com/d60-Lab/filmgraph/internal/service"
	"github.com/d60-Lab/filmgraph/pkg/database"
	"github.com/d60-Lab/filmgraph/pkg/logger"
	"github.com/d60-Lab/filmgraph/pkg/tracing"
)

// @title filmgraph API
// @version 1.0
// @description Film social service: friendships, likes, reviews, rankings, recommendations and activity feed.
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	store := repository.NewStore(db)

	var publisher service.FeedPublisher
	stopPublisher := func(context.Context) error { return nil }
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unavailable, feed events will not be published", zap.Error(err))
		}
		sp := service.NewStreamPublisher(rdb, cfg.Feed.QueueSize, cfg.Redis.StreamMaxLen)
		stopPublisher = sp.Start(cfg.Feed.Workers)
		publisher = sp
	}

	h := handler.NewHandler(handler.Services{
		Users:           service.NewUserService(store),
		Friends:         service.NewFriendshipService(store, publisher),
		Films:           service.NewFilmService(store, publisher),
		Ranking:         service.NewRankingService(store),
		Recommendations: service.NewRecommendationService(store),
		Reviews:         service.NewReviewService(store, publisher),
		Directors:       service.NewDirectorService(store),
		Catalog:         service.NewCatalogService(store.Catalog),
		Feed:            service.NewFeedService(store),
		Ping: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(cfg, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopPublisher(ctx); err != nil {
		logger.Warn("feed publisher shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}
