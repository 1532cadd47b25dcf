package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamassss/slinkr/internal/config"
	"github.com/gamassss/slinkr/internal/handler"
	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gamassss/slinkr/internal/middleware"
	"github.com/gamassss/slinkr/internal/repository/postgres"
	redisRepo "github.com/gamassss/slinkr/internal/repository/redis"
	"github.com/gamassss/slinkr/internal/repository/sqlite"
	"github.com/gamassss/slinkr/internal/service"
	"github.com/gamassss/slinkr/pkg/slug"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type storage struct {
	links  service.LinkRepository
	clicks service.ClickRepository
	ping   handler.PingFunc
	close  func()
}

type handlers struct {
	links     *handler.LinkHandler
	redirect  *handler.RedirectHandler
	analytics *handler.AnalyticsHandler
	health    *handler.HealthHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	loggerConfig := logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}

	if err := logger.Initialize(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.Get()
	log.Info("Starting slinkr",
		"port", cfg.Server.Port,
		"storage", cfg.Database.Driver,
		"redis", cfg.Redis.Enabled,
		"log_level", cfg.Log.Level,
	)

	store, err := setupStorage(cfg)
	if err != nil {
		log.Error("Failed to setup storage", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}

	checks := map[string]handler.PingFunc{"database": store.ping}

	var cache service.CacheRepository
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = setupRedis(cfg)
		if err != nil {
			log.Error("Failed to setup redis", "error", err)
			store.close()
			os.Exit(1)
		}
		linkCache := redisRepo.NewLinkCache(redisClient)
		cache = linkCache
		checks["redis"] = linkCache.Ping
	}

	codec := slug.New(cfg.Slug.Reserved, cfg.Slug.Length)

	linkService := service.NewLinkService(store.links, cache, codec, cfg.Cache.LinkTTL)
	clickService := service.NewClickService(store.clicks, cache)
	analyticsService := service.NewAnalyticsService(store.links, store.clicks, cache, cfg.Cache.SummaryTTL)

	router := setupRouter(handlers{
		links:     handler.NewLinkHandler(linkService, cfg.Server.BaseURL),
		redirect:  handler.NewRedirectHandler(linkService, clickService, codec, cfg.Click.RecordTimeout),
		analytics: handler.NewAnalyticsHandler(analyticsService, clickService),
		health:    handler.NewHealthHandler(checks),
	}, cfg.Auth.JWTSecret)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg.Server.ShutdownTimeout, store, redisClient, log)
}

func setupStorage(cfg *config.Config) (*storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}

		return &storage{
			links:  sqlite.NewLinkRepository(db),
			clicks: sqlite.NewClickRepository(db),
			ping:   db.PingContext,
			close:  func() { db.Close() },
		}, nil

	default:
		if err := postgres.RunMigrations(cfg.Database.URL); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}

		return &storage{
			links:  postgres.NewLinkRepository(pool),
			clicks: postgres.NewClickRepository(pool),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil
	}
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redisClient, nil
}

func setupRouter(h handlers, jwtSecret string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// health check
	router.GET("/healthz", h.health.Healthz)
	router.GET("/readyz", h.health.Readyz)

	api := router.Group("/api", middleware.Auth(jwtSecret))
	{
		api.POST("/links", h.links.Create)
		api.GET("/links", h.links.List)
		api.GET("/links/top", h.links.Top)
		api.GET("/links/:id", h.links.Get)
		api.PUT("/links/:id", h.links.Update)
		api.DELETE("/links/:id", h.links.Delete)

		api.GET("/links/:id/analytics", h.analytics.GetAnalytics)
		api.GET("/links/:id/clicks", h.analytics.GetClickHistory)
		api.GET("/clicks/recent", h.analytics.RecentClicks)
		api.GET("/dashboard", h.analytics.Dashboard)
	}

	router.GET("/:slug", h.redirect.Redirect)

	return router
}

func gracefulShutdown(srv *http.Server, timeout time.Duration, store *storage, redisClient *redis.Client, log *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	store.close()
	log.Info("Database connection closed")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", "error", err)
		}
	}

	log.Info("Graceful shutdown completed")
}
