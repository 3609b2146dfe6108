package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/auth"
	"github.com/napoleonmm83/emmotion-api/internal/config"
	"github.com/napoleonmm83/emmotion-api/internal/database"
	"github.com/napoleonmm83/emmotion-api/internal/http/handler"
	"github.com/napoleonmm83/emmotion-api/internal/http/middleware"

	_ "github.com/napoleonmm83/emmotion-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	quoteHandler      *handler.QuoteHandler
	onboardingHandler *handler.OnboardingHandler
	submissionHandler *handler.SubmissionHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	quoteHandler *handler.QuoteHandler,
	onboardingHandler *handler.OnboardingHandler,
	submissionHandler *handler.SubmissionHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		quoteHandler:      quoteHandler,
		onboardingHandler: onboardingHandler,
		submissionHandler: submissionHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
				"wait_count":       stats.WaitCount,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public configurator
		r.Post("/quote", rt.quoteHandler.Estimate)

		// Public onboarding wizard
		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/config/{serviceType}", rt.onboardingHandler.GetConfig)

			r.Group(func(r chi.Router) {
				r.Use(middleware.OriginCheck(&rt.cfg.Onboarding, rt.logger))
				r.Use(middleware.BodyLimit(rt.cfg.Onboarding.MaxBodyBytes))
				r.Use(rt.rateLimiter.LimitSubmit)
				r.Post("/submit", rt.onboardingHandler.Submit)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Route("/submissions", func(r chi.Router) {
				r.Get("/", rt.submissionHandler.ListSubmissions)
				r.Get("/{id}", rt.submissionHandler.GetSubmission)
				r.Get("/{id}/contract", rt.submissionHandler.DownloadContract)
				r.Get("/{id}/corrections", rt.submissionHandler.ListCorrections)
				r.With(rt.authMiddleware.RequireRole(auth.RoleAdmin)).
					Post("/{id}/corrections", rt.submissionHandler.CreateCorrection)
			})
		})
	})

	return r
}
