package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"activitiesui/api/routes"
	"activitiesui/internal/activities"
	"activitiesui/internal/observability/metrics"
	"activitiesui/internal/shared/config"
	"activitiesui/internal/shared/database"
	"activitiesui/internal/shared/middleware"
	"activitiesui/internal/shared/session"
	"activitiesui/internal/shared/utils/response"
	"activitiesui/internal/tracking"
	"activitiesui/pkg/cache"
	"activitiesui/pkg/logger"
	"activitiesui/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("Failed to initialise backing stores", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newSessionStore(ctx, cfg, db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewAppMetrics(registry)

	var cacheService cache.Service
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis)
	}
	activitiesClient := activities.NewClient(cfg.APIs.ActivitiesURL, cfg.APIs.Timeout, appMetrics)
	prisonerClient := activities.NewClient(cfg.APIs.PrisonerSearchURL, cfg.APIs.Timeout, appMetrics)
	service := activities.NewService(
		activities.NewActivitiesAPI(activitiesClient),
		activities.NewPrisonerSearchAPI(prisonerClient),
		cacheService,
	)

	tracker := newTracker(cfg)
	defer func() {
		if err := tracker.Close(); err != nil {
			appLogger.Error("Error closing tracker", slog.Any("error", err))
		}
	}()
	recorder := tracking.NewRecorder(tracker, appMetrics)

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	engine := setupRouter(cfg, store, rateLimiter)
	routes.NewRouter(cfg, db, store, service, recorder, appMetrics, registry).SetupRoutes(engine)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.String("build_time", BuildTime),
			slog.String("commit", GitCommit),
			slog.String("session_store", cfg.Session.Store),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("tracking", cfg.TrackingEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// newSessionStore picks the store named by SESSION_STORE. The postgres store
// gets a background purge of expired rows.
func newSessionStore(ctx context.Context, cfg *config.Config, db *database.DB) session.Store {
	switch cfg.Session.Store {
	case "postgres":
		store := session.NewGormStore(db.PostgreSQL)
		session.NewPurger(store, 15*time.Minute).Start(ctx)
		return store
	case "memory":
		logger.GetDefault().Warn("Using in-memory sessions; sessions are lost on restart")
		return session.NewMemoryStore()
	default:
		return session.NewRedisStore(db.Redis)
	}
}

func newTracker(cfg *config.Config) tracking.Tracker {
	if !cfg.TrackingEnabled() {
		return tracking.NewLogTracker(logger.GetDefault())
	}
	tracker, err := tracking.NewKafkaTracker(tracking.DefaultKafkaConfig(cfg.Tracking.Brokers, cfg.Tracking.Topic, cfg.Tracking.ClientID))
	if err != nil {
		logger.GetDefault().Error("Kafka unavailable, tracking events will only be logged", slog.Any("error", err))
		return tracking.NewLogTracker(logger.GetDefault())
	}
	return tracker
}

func setupRouter(cfg *config.Config, store session.Store, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(middleware.TraceID(), middleware.RequestLogger(appLogger), gin.Recovery())

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	engine.Use(
		middleware.ErrorHandler(appLogger),
		session.Middleware(store, session.Options{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
		}),
	)

	// Without templates pages render as JSON view models
	if info, err := os.Stat(cfg.ViewsPath); err == nil && info.IsDir() {
		engine.LoadHTMLGlob(cfg.ViewsPath + "/**/*.html")
	} else {
		appLogger.Warn("Views directory not found, rendering view models as JSON", "path", cfg.ViewsPath)
		engine.HTMLRender = response.ViewModelRender{}
	}
	if _, err := os.Stat(cfg.AssetsPath); err == nil {
		engine.Static("/assets", cfg.AssetsPath)
	}

	return engine
}
