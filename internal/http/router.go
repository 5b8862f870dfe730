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
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/decoynet/go-phishsim-backend/internal/config"
	"github.com/decoynet/go-phishsim-backend/internal/domain"
	"github.com/decoynet/go-phishsim-backend/internal/http/handlers"
	"github.com/decoynet/go-phishsim-backend/internal/http/middleware"
	"github.com/decoynet/go-phishsim-backend/internal/mailer"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
	"github.com/decoynet/go-phishsim-backend/internal/scanner"
	"github.com/decoynet/go-phishsim-backend/internal/services"
)

// groupRepoShim adapts the repository free functions to the services.GroupStore
// and services.GroupAdminStore interfaces. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type groupRepoShim struct{}

// CreateGroup proxies repo.CreateGroup.
func (groupRepoShim) CreateGroup(ctx context.Context, db *gorm.DB, name string) (*domain.Group, error) {
	return repo.CreateGroup(ctx, db, name)
}

// GetGroup proxies repo.GetGroup.
func (groupRepoShim) GetGroup(ctx context.Context, db *gorm.DB, id string) (*domain.Group, error) {
	return repo.GetGroup(ctx, db, id)
}

// CountGroups proxies repo.CountGroups (pagination support).
func (groupRepoShim) CountGroups(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountGroups(ctx, db)
}

// ListGroupsPage proxies repo.ListGroupsPage (pagination support).
func (groupRepoShim) ListGroupsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Group, error) {
	return repo.ListGroupsPage(ctx, db, offset, limit)
}

// UpdateGroupResults proxies repo.UpdateGroupResults (versioned replacement).
func (groupRepoShim) UpdateGroupResults(ctx context.Context, db *gorm.DB, id string, version int64, results domain.ResultList) error {
	return repo.UpdateGroupResults(ctx, db, id, version, results)
}

// userRepoShim adapts the user repository functions to services.UserDirectory.
type userRepoShim struct{}

// GetUser proxies repo.GetUser.
func (userRepoShim) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.TargetUser, error) {
	return repo.GetUser(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, the
// static campaign pages, and the tracking/scanning/email/group API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS, gzip, and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction. Target identifiers, recipient
	// addresses, credentials and idempotency keys are masked by default.
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetEmailReceiptByKey(ctx, db, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per target (tracking-link identity) or IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByTargetOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
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

	// Compress responses (the group list with embedded results grows quickly)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Security headers (HSTS only when enabled and request is HTTPS). The CSP
	// fits the embedded target-facing pages, which inline only styles; it is
	// dropped when the Swagger UI is mounted because that UI needs scripts.
	csp := "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'"
	if cfg.SwaggerEnabled {
		csp = ""
	}
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
		CSP:          csp,
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

	// Dependency injection: services ← repo/db/collaborators
	clickSvc := services.NewResultService(db, groupRepoShim{}, userRepoShim{})

	scanClient := scanner.NewClient(cfg.Scanner.BaseURL, cfg.Scanner.APIKey, cfg.Scanner.HTTPTimeout)
	contentClient := scanner.NewContentClient(cfg.Scanner.ContentURL, cfg.Scanner.HTTPTimeout)
	scanSvc := services.NewScanService(scanClient, contentClient)
	scanSvc.PollInterval = cfg.Scanner.PollInterval
	scanSvc.MaxWait = cfg.Scanner.MaxWait

	mailClient := mailer.NewClient(cfg.Email.BaseURL, cfg.Email.ServiceID, cfg.Email.PublicKey, cfg.Email.PrivateKey, cfg.Email.HTTPTimeout)
	emailSvc := services.NewEmailService(db, mailClient)
	emailSvc.ReceiptTTL = cfg.Email.ReceiptTTL
	emailSvc.NameLocale = language.English

	groupSvc := services.NewGroupService(db, groupRepoShim{})

	h := handlers.New(clickSvc, scanSvc, emailSvc, groupSvc)

	// Static campaign pages
	r.GET("/", h.Landing)
	r.GET("/phishing-link", h.DecoyPage)
	r.GET("/error-404", h.ErrorPage)

	// Tracking
	r.GET("/record-behavior", h.RecordBehavior)

	// Scanning
	r.POST("/scan-url", h.ScanURL)
	r.POST("/api/scan-email", h.ScanEmail)

	// Email delivery
	r.POST("/send-email", h.SendEmail)

	// Groups
	r.POST("/groups", h.CreateGroup)
	r.GET("/groups", h.ListGroups)
	r.GET("/groups/:id", h.GetGroup)
	r.GET("/debug/groups", h.DebugGroups)

	// API docs (off by default; enable via SWAGGER_ENABLED)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
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
