// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/donorlink/go-donor-backend/internal/config"
	"github.com/donorlink/go-donor-backend/internal/domain"
	"github.com/donorlink/go-donor-backend/internal/eligibility"
	"github.com/donorlink/go-donor-backend/internal/http/handlers"
	"github.com/donorlink/go-donor-backend/internal/http/middleware"
	"github.com/donorlink/go-donor-backend/internal/repo"
	"github.com/donorlink/go-donor-backend/internal/services"
)

// donorRepoShim adapts the repository free functions to the services.DonorRepo
// interface expected by the DonorService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type donorRepoShim struct{}

// CreateDonor proxies repo.CreateDonor.
func (donorRepoShim) CreateDonor(ctx context.Context, db *gorm.DB, userID, displayName string, bt domain.BloodType, rh domain.RhFactor, visible bool) (*domain.DonorProfile, error) {
	return repo.CreateDonor(ctx, db, userID, displayName, bt, rh, visible)
}

// GetDonor proxies repo.GetDonor.
func (donorRepoShim) GetDonor(ctx context.Context, db *gorm.DB, id string) (*domain.DonorProfile, error) {
	return repo.GetDonor(ctx, db, id)
}

// GetDonorByUser proxies repo.GetDonorByUser.
func (donorRepoShim) GetDonorByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.DonorProfile, error) {
	return repo.GetDonorByUser(ctx, db, userID)
}

// CountDonors proxies repo.CountDonors (pagination support).
func (donorRepoShim) CountDonors(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountDonors(ctx, db)
}

// ListDonorsPage proxies repo.ListDonorsPage (pagination support).
func (donorRepoShim) ListDonorsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.DonorProfile, error) {
	return repo.ListDonorsPage(ctx, db, offset, limit)
}

// UpdateDonorProfile proxies repo.UpdateDonorProfile.
func (donorRepoShim) UpdateDonorProfile(ctx context.Context, db *gorm.DB, id, userID, displayName string, visible bool) error {
	return repo.UpdateDonorProfile(ctx, db, id, userID, displayName, visible)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
// 10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. The questionnaire endpoints carry
	// health data, so the screening payload header names are masked too.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
			"X-Medical-Consent", // screening consent token, never logged
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (questionnaires and history pages are chunky)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, donorID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, donorID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
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

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/policy
	policy := eligibility.Policy{EligibleWithoutScreening: cfg.EligibleWithoutScreening}
	donorSvc := services.NewDonorService(db, donorRepoShim{}, policy)
	scrSvc := &services.ScreeningService{DB: db}
	donSvc := &services.DonationService{DB: db}
	matchSvc := &services.MatchService{DB: db, Policy: policy}
	reqSvc := &services.RequestService{DB: db}
	h := handlers.New(donorSvc, scrSvc, donSvc, matchSvc, reqSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Donors
		api.POST("/donors", h.RegisterDonor)
		api.GET("/donors", h.ListDonors)
		api.GET("/donors/search", h.SearchDonors)
		api.GET("/donors/:id", h.GetDonor)
		api.PUT("/donors/:id", h.UpdateDonor)
		api.GET("/donors/:id/eligibility", h.GetEligibility)

		// Screening
		api.PUT("/donors/:id/screening", h.PutScreening)
		api.GET("/donors/:id/screening", h.GetScreening)

		// Donations
		api.POST("/donors/:id/donations", h.RecordDonation)
		api.GET("/donors/:id/donations", h.ListDonations)

		// Requests
		api.POST("/requests", h.CreateRequest)
		api.GET("/requests", h.ListRequests)
		api.PUT("/requests/:id/status", h.AnswerRequest)
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
