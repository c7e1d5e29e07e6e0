package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"showtix/internal/admin"
	"showtix/internal/auth"
	"showtix/internal/bookings"
	"showtix/internal/events"
	"showtix/internal/notifications"
	"showtix/internal/payments"
	"showtix/internal/shared/config"
	"showtix/internal/shared/database"
	"showtix/internal/shared/utils/response"
	"showtix/internal/theaters"
	"showtix/internal/users"
	"showtix/pkg/cache"
	"showtix/pkg/logger"
	"showtix/pkg/ratelimit"
)

var startTime = time.Now()

// App bundles the wired application: the HTTP handler plus the
// background components the server process owns.
type App struct {
	Router  *gin.Engine
	Sweeper *events.Sweeper
}

// Setup wires repositories, services and controllers and returns the
// assembled application.
func Setup(cfg *config.Config, db *database.DB, producer *notifications.Producer, log *logger.Logger) *App {
	redisClient := db.GetRedisClient()
	gormDB := db.GetPostgreSQL()

	cacheService := cache.NewService(redisClient)
	rateLimiter := ratelimit.NewRateLimiter(redisClient, &ratelimit.Config{
		Enabled:         cfg.RateLimit.Enabled,
		WindowDuration:  cfg.RateLimit.WindowDuration,
		DefaultRequests: cfg.RateLimit.DefaultRequests,
		PublicRequests:  cfg.RateLimit.PublicRequests,
		AuthRequests:    cfg.RateLimit.AuthRequests,
		BookingRequests: cfg.RateLimit.BookingRequests,
		AdminRequests:   cfg.RateLimit.AdminRequests,
	})

	userRepo := users.NewRepository(gormDB)
	eventRepo := events.NewRepository(gormDB)
	bookingRepo := bookings.NewRepository(gormDB)
	theaterRepo := theaters.NewRepository(gormDB)

	eventMutex := events.NewEventMutex(redisClient, cfg.Redis.EventLockTTL)
	if err := eventMutex.PreloadScripts(context.Background()); err != nil {
		log.WithError(err).Warn("failed to preload redis scripts")
	}

	authService := auth.NewService(userRepo, cfg, log)
	eventService := events.NewService(eventRepo, cacheService, eventMutex, log)
	theaterService := theaters.NewService(theaterRepo, userRepo, cacheService, log)
	gateway := payments.NewGateway(redisClient, cfg, log)
	notifier := notifications.NewService(producer, log)
	bookingService := bookings.NewService(bookingRepo, eventService, gateway, notifier, cfg, log)

	theaterGate := func(ctx context.Context, ownerID, theaterID uuid.UUID, screen string) (int, error) {
		sc, err := theaterService.RequireApprovedScreen(ctx, ownerID, theaterID, screen)
		if err != nil {
			return 0, err
		}
		return sc.Capacity, nil
	}

	webhookVerifier := payments.NewWebhookVerifier(cfg.Payments.WebhookSecret)
	onCaptured := func(c *gin.Context, event *payments.WebhookEvent) {
		// Capture events are informational here; clients settle their
		// bookings through the confirm endpoint.
		log.Info("payment captured",
			"order_id", event.OrderID,
			"payment_id", event.PaymentID,
			"amount", event.Amount,
		)
	}
	onRefunded := func(c *gin.Context, event *payments.WebhookEvent) {
		booking, err := bookingService.RefundByPaymentID(c.Request.Context(), event.PaymentID)
		if err != nil {
			log.Warn("refund webhook not applied",
				"payment_id", event.PaymentID,
				"error", err.Error(),
			)
			return
		}
		log.Info("booking refunded",
			"booking_id", booking.ID,
			"payment_id", event.PaymentID,
		)
	}

	authCtrl := auth.NewController(authService)
	eventCtrl := events.NewController(eventService, theaterGate)
	bookingCtrl := bookings.NewController(bookingService)
	theaterCtrl := theaters.NewController(theaterService)
	paymentCtrl := payments.NewController(gateway, webhookVerifier, onCaptured, onRefunded, log)
	adminCtrl := admin.NewController(userRepo, theaterService, bookingService, eventService)

	router := newEngine(cfg, db, rateLimiter, log)

	api := router.Group(cfg.GetAPIBasePath())
	secret := cfg.JWT.Secret
	auth.RegisterRoutes(api, authCtrl, secret)
	events.RegisterRoutes(api, eventCtrl, secret)
	bookings.RegisterRoutes(api, bookingCtrl, secret)
	theaters.RegisterRoutes(api, theaterCtrl, secret)
	payments.RegisterRoutes(api, paymentCtrl, secret)
	admin.RegisterRoutes(api, adminCtrl, secret)

	return &App{
		Router:  router,
		Sweeper: events.NewSweeper(eventRepo, cfg.Booking.SweepInterval, log),
	}
}

func newEngine(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter, log *logger.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(ratelimit.Middleware(rateLimiter))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "unhealthy", gin.H{"error": err.Error()}, nil)
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "healthy", gin.H{"time": time.Now().UTC()}, nil)
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	router.GET("/status", func(c *gin.Context) {
		response.RespondJSON(c, "success", http.StatusOK, "ok", gin.H{
			"service": "showtix",
			"version": cfg.APIVersion,
			"uptime":  time.Since(startTime).String(),
		}, nil)
	})

	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.LogHTTPRequest(c, time.Since(start))
	}
}
