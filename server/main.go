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
	_ "time/tzdata"

	"campuspark/api/routes"
	_ "campuspark/docs"
	"campuspark/internal/notifications"
	"campuspark/internal/penalty"
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/database"
	"campuspark/pkg/logger"
	"campuspark/pkg/obs"
	"campuspark/pkg/rabbitmq"
	"campuspark/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title                       CampusPark API
// @version                     1.0
// @description                 Campus parking reservations and overtime penalties.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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

	// Tracing
	shutdownTracer, err := obs.InitTracer(context.Background(), cfg.Tracing)
	if err != nil {
		appLogger.Error("Failed to initialize tracing, continuing without it", slog.Any("error", err))
		shutdownTracer = func(context.Context) error { return nil }
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedisClient(), &ratelimit.Config{
			Enabled:                 cfg.RateLimit.Enabled,
			WindowDuration:          cfg.RateLimit.WindowDuration,
			DefaultRequests:         cfg.RateLimit.DefaultRequests,
			PublicRequests:          cfg.RateLimit.PublicRequests,
			AuthRequests:            cfg.RateLimit.AuthRequests,
			BookingRequests:         cfg.RateLimit.BookingRequests,
			BookingCriticalRequests: cfg.RateLimit.BookingCriticalRequests,
			PenaltyRequests:         cfg.RateLimit.PenaltyRequests,
			AdminRequests:           cfg.RateLimit.AdminRequests,
			UserRequests:            cfg.RateLimit.UserRequests,
			HealthRequests:          cfg.RateLimit.HealthRequests,
			WhitelistedIPs:          cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Reminder and penalty notices go to Kafka; falls back to a no-op
	notifier := notifications.NewServiceFromConfig(cfg.Kafka)
	defer func() {
		if err := notifier.Close(); err != nil {
			appLogger.Error("Error closing notification producer", slog.Any("error", err))
		}
	}()

	// Penalty engine
	broker := penalty.NewBroker(cfg.Penalty.StreamBuffer)
	penaltyRepo := penalty.NewRepository(db.GetPostgreSQL())
	supervisor, err := penalty.NewSupervisor(penaltyRepo, broker, cfg.Penalty)
	if err != nil {
		appLogger.Error("Invalid penalty engine configuration", slog.Any("error", err))
		os.Exit(1)
	}

	sinks := []penalty.EventSink{penalty.NewPenaltyNoticeSink(notifier, penaltyRepo)}
	if cfg.RabbitMQ.Enabled {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			appLogger.Error("RabbitMQ unavailable, lifecycle events stay in-process", slog.Any("error", err))
		} else {
			defer publisher.Close()
			sinks = append(sinks, penalty.NewAMQPSink(publisher))
			appLogger.Info("Lifecycle events relayed to RabbitMQ", slog.String("exchange", cfg.RabbitMQ.Exchange))
		}
	}

	relayCtx, relayCancel := context.WithCancel(context.Background())
	defer relayCancel()
	go penalty.NewRelay(broker, sinks...).Run(relayCtx)

	// Restart timers for sessions that were live before the restart
	resumeCtx, resumeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	resumed, err := supervisor.ResumeActive(resumeCtx)
	resumeCancel()
	if err != nil {
		appLogger.Error("Failed to resume active sessions", slog.Any("error", err))
	} else {
		appLogger.Info("Resumed live parking sessions", slog.Int("count", resumed))
	}

	router := setupRouter(cfg, db, rateLimiter, routes.Lifecycle{
		Broker:     broker,
		Supervisor: supervisor,
		Notifier:   notifier,
	})

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", Version),
			slog.String("build_time", BuildTime),
			slog.String("commit", GitCommit),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("rate_limiting", cfg.RateLimit.Enabled),
			slog.String("penalty_strategy", supervisor.Strategy().Name()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	// Flush every live session before the database closes
	supervisor.Shutdown(ctx)
	relayCancel()

	if err := shutdownTracer(ctx); err != nil {
		appLogger.Error("Error flushing traces", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, lifecycle routes.Lifecycle) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // allow every origin dynamically
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter := routes.NewRouter(cfg, db, lifecycle)
	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		reqLogger := l.WithRequestID(requestID)

		c.Next()
		duration := time.Since(start)
		reqLogger.LogHTTPRequest(c, duration)

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			err := c.Errors.Last()
			if err == nil {
				reqLogger.LogHTTPError(c, fmt.Errorf("%s", http.StatusText(status)), status)
			} else {
				reqLogger.LogHTTPError(c, err.Err, status)
			}
		}
	}
}
