// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"campuspark/internal/auth"
	"campuspark/internal/bookings"
	"campuspark/internal/notifications"
	"campuspark/internal/penalty"
	"campuspark/internal/shared/config"
	"campuspark/internal/shared/database"
	"campuspark/internal/users"
	"campuspark/internal/zones"
	"campuspark/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Lifecycle holds the long-running engine pieces owned by main
type Lifecycle struct {
	Broker     *penalty.Broker
	Supervisor *penalty.Supervisor
	Notifier   notifications.Service
}

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	lifecycle Lifecycle

	cacheService cache.Service // nil without Redis
	authRepo     auth.Repository
	zoneRepo     zones.Repository
	zoneService  zones.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, lifecycle Lifecycle) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		lifecycle: lifecycle,
	}
	if client := db.GetRedisClient(); client != nil {
		r.cacheService = cache.NewService(client)
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupUserRoutes(api)

		// zones before bookings: bookings read slots and invalidate their cache
		r.setupZoneRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "campuspark-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "campuspark-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
			"redis_cache": r.cacheService != nil,
		}
		if r.lifecycle.Supervisor != nil {
			status["live_sessions"] = r.lifecycle.Supervisor.Active()
		}
		c.JSON(http.StatusOK, status)
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupUserRoutes configures the profile routes
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userService := users.NewService(users.NewRepository(r.db.GetPostgreSQL()))
	if r.cacheService != nil {
		userService.SetCacheService(r.cacheService)
	}
	users.SetupUserRoutes(rg, r.config, users.NewController(userService))
}

// setupZoneRoutes configures zone and slot routes
func (r *Router) setupZoneRoutes(rg *gin.RouterGroup) {
	r.zoneRepo = zones.NewRepository(r.db.GetPostgreSQL())
	r.zoneService = zones.NewService(r.zoneRepo)
	if r.cacheService != nil {
		r.zoneService.SetCacheService(r.cacheService)
	}
	zones.SetupZoneRoutes(rg, r.config, zones.NewController(r.zoneService))
}

// setupBookingRoutes wires reservations and the penalty engine, which
// depend on each other through the booking store adapter.
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	pg := r.db.GetPostgreSQL()

	bookingRepo := bookings.NewRepository(pg)
	penaltyService := penalty.NewService(
		penalty.NewRepository(pg),
		r.lifecycle.Supervisor,
		bookings.NewPenaltyStoreAdapter(bookingRepo, r.zoneService),
		r.lifecycle.Broker,
	)

	notifier := r.lifecycle.Notifier
	if notifier == nil {
		notifier = notifications.NewNoopService()
	}
	bookingService := bookings.NewService(
		bookingRepo,
		r.zoneRepo,
		auth.NewUserDirectoryAdapter(r.authRepo),
		penaltyService,
		notifier,
		r.lifecycle.Supervisor.Location(),
	)
	bookingService.SetSlotCache(r.zoneService)

	bookings.SetupBookingRoutes(rg, r.config, bookings.NewController(bookingService))
	penalty.SetupPenaltyRoutes(rg, r.config, penalty.NewController(penaltyService), penalty.NewStreamHandler(penaltyService))
}
