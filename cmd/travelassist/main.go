package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelassist/internal/cache"
	"travelassist/internal/config"
	"travelassist/internal/dayplan"
	"travelassist/internal/handler"
	"travelassist/internal/middleware"
	"travelassist/internal/planner"
	"travelassist/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := runSeed(cfg, logger); err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// runSeed writes the sample catalog into MongoDB.
func runSeed(cfg *config.Config, logger *slog.Logger) error {
	if cfg.MongoURI == "" {
		return errors.New("MONGO_URI is required for seeding")
	}
	st, err := store.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout, logger)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.MongoTimeout)
	defer cancel()
	return st.Seed(ctx, store.SeedData())
}

func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.MongoURI != "" {
		return store.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout, logger)
	}
	logger.Warn("MONGO_URI not set, using in-memory store with sample data")
	st := store.NewMemoryStore()
	if err := st.Seed(context.Background(), store.SeedData()); err != nil {
		return nil, err
	}
	return st, nil
}

func openCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisEnabled {
		rc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err == nil {
			logger.Info("redis cache connected", "addr", cfg.RedisAddr)
			return rc
		}
		logger.Error("redis unavailable, falling back to memory cache", "error", err)
	}
	return cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL, logger)
}

func runServer(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting travelassist server",
		"log_level", cfg.LogLevel.String(),
		"http_addr", cfg.HTTPAddr,
		"mongo", cfg.MongoURI != "",
		"redis_enabled", cfg.RedisEnabled,
	)

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	c := openCache(cfg, logger)
	defer c.Close()

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, day plan endpoints will reject every request")
	}

	tripPlanner := planner.New(st, cfg.Tariffs, logger)
	dayPlans := dayplan.New(st, logger)

	limiter := middleware.NewRateLimiter(
		cfg.RateLimitPerWindow,
		cfg.RateLimitWindow,
		cfg.RateLimitWhitelist,
		func(string) { handler.ServerStats.IncRateLimitBlocked() },
		logger,
	)
	defer limiter.Stop()

	router := handler.NewRouter(handler.Deps{
		Planner:        tripPlanner,
		DayPlans:       dayPlans,
		Store:          st,
		Cache:          c,
		CacheTTL:       cfg.CacheTTL,
		Limiter:        limiter,
		JWTSecret:      cfg.JWTSecret,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	warmer := cache.NewCacheWarmer(c, st, tripPlanner, cfg.CacheTTL, logger)
	if cfg.CacheWarmOnStart {
		warmCtx, warmCancel := context.WithTimeout(ctx, time.Minute)
		if err := warmer.WarmAll(warmCtx); err != nil {
			logger.Error("cache warming failed", "error", err)
		}
		warmCancel()
	}
	go warmer.ScheduleRefresh(ctx, cfg.CacheRefresh)

	go func() {
		logger.Info("starting HTTP server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
