// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, rate limiting, and the role gate.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/config"
	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/http/handlers"
	"github.com/tbourn/go-dairy-backend/internal/http/middleware"
	"github.com/tbourn/go-dairy-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), rate limiting, CORS and security
// headers, health and metrics endpoints, and the versioned public API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Rate limiter (per user/IP)
//  9. CORS and security headers
//  10. Identity + role gate (API group only)
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress list-heavy responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "X-User-Role"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db
	herdSvc := &services.CattleService{DB: db}
	milkSvc := &services.ProductionService{DB: db}
	vetSvc := &services.HealthService{DB: db}
	breedSvc := &services.BreedingService{DB: db}
	feedSvc := &services.FeedService{DB: db}
	reportSvc := &services.AnalyticsService{DB: db}
	inboxSvc := &services.NotificationService{DB: db}
	auditSvc := &services.ActivityService{DB: db}
	h := handlers.New(herdSvc, milkSvc, vetSvc, breedSvc, feedSvc, reportSvc, inboxSvc, auditSvc)

	// Role tiers. Reads are open to every authenticated role; record
	// keeping is worker-and-up; the herd registry is manager-and-up;
	// removing an animal is admin-only.
	var (
		keepers  = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleWorker}
		managers = []domain.Role{domain.RoleAdmin, domain.RoleManager}
		admins   = []domain.Role{domain.RoleAdmin}
	)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.Identity())
	{
		// Herd registry
		api.GET("/cattle", h.ListCattle)
		api.GET("/cattle/:id", h.GetCattle)
		api.POST("/cattle", middleware.RequireRole(managers...), h.CreateCattle)
		api.PUT("/cattle/:id", middleware.RequireRole(managers...), h.UpdateCattle)
		api.DELETE("/cattle/:id", middleware.RequireRole(admins...), h.DeleteCattle)

		// Milk production
		api.GET("/production", h.ListProduction)
		api.GET("/production/:id", h.GetProduction)
		api.POST("/production", middleware.RequireRole(keepers...), h.CreateProduction)
		api.PUT("/production/:id", middleware.RequireRole(keepers...), h.UpdateProduction)
		api.DELETE("/production/:id", middleware.RequireRole(managers...), h.DeleteProduction)

		// Health records
		api.GET("/health-records", h.ListHealthRecords)
		api.GET("/health-records/:id", h.GetHealthRecord)
		api.POST("/health-records", middleware.RequireRole(keepers...), h.CreateHealthRecord)
		api.PUT("/health-records/:id", middleware.RequireRole(keepers...), h.UpdateHealthRecord)
		api.DELETE("/health-records/:id", middleware.RequireRole(managers...), h.DeleteHealthRecord)

		// Breeding records
		api.GET("/breeding", h.ListBreeding)
		api.GET("/breeding/:id", h.GetBreeding)
		api.POST("/breeding", middleware.RequireRole(keepers...), h.CreateBreeding)
		api.PUT("/breeding/:id", middleware.RequireRole(keepers...), h.UpdateBreeding)
		api.DELETE("/breeding/:id", middleware.RequireRole(managers...), h.DeleteBreeding)

		// Feed inventory
		api.GET("/feeds", h.ListFeeds)
		api.GET("/feeds/:id", h.GetFeed)
		api.POST("/feeds", middleware.RequireRole(keepers...), h.CreateFeed)
		api.PUT("/feeds/:id", middleware.RequireRole(keepers...), h.UpdateFeed)
		api.DELETE("/feeds/:id", middleware.RequireRole(managers...), h.DeleteFeed)

		// Analytics and dashboard
		api.GET("/analytics/summary", h.ProductionSummary)
		api.GET("/analytics/daily", h.DailyBreakdown)
		api.GET("/analytics/top", h.TopProducers)
		api.GET("/analytics/anomaly/:id", h.AnomalyCheck)
		api.GET("/dashboard", h.Dashboard)

		// Notifications
		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/unread-count", h.UnreadCount)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
		api.POST("/notifications/read-all", h.MarkAllNotificationsRead)
		api.DELETE("/notifications/:id", h.DeleteNotification)

		// Activity log
		api.GET("/activities", h.ListActivities)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
