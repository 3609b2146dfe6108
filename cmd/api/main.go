package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/docs"
	"github.com/napoleonmm83/emmotion-api/internal/auth"
	"github.com/napoleonmm83/emmotion-api/internal/config"
	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/database"
	"github.com/napoleonmm83/emmotion-api/internal/email"
	"github.com/napoleonmm83/emmotion-api/internal/http/handler"
	"github.com/napoleonmm83/emmotion-api/internal/http/middleware"
	"github.com/napoleonmm83/emmotion-api/internal/http/router"
	"github.com/napoleonmm83/emmotion-api/internal/invoicing"
	"github.com/napoleonmm83/emmotion-api/internal/jobs"
	"github.com/napoleonmm83/emmotion-api/internal/logger"
	"github.com/napoleonmm83/emmotion-api/internal/pdf"
	"github.com/napoleonmm83/emmotion-api/internal/repository"
	"github.com/napoleonmm83/emmotion-api/internal/service"
	"github.com/napoleonmm83/emmotion-api/internal/storage"
)

// @title emmotion API
// @version 1.0
// @description Onboarding, pricing and contract API for the emmotion video production website
// @termsOfService https://www.emmotion.ch/agb

// @contact.name emmotion
// @contact.email hallo@emmotion.ch

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token for the admin API

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "api-staging.emmotion.ch"
	case "production":
		docs.SwaggerInfo.Host = "api.emmotion.ch"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Content snapshots: served from the CMS when configured, built-in
	// defaults otherwise.
	var snapshots service.SnapshotSource
	var contentCache *content.Cache
	if cfg.Content.BaseURL != "" {
		fetcher := content.NewClient(cfg.Content.BaseURL, cfg.Content.APIKey, cfg.Content.TimeoutDuration(), log)
		contentCache = content.NewCache(fetcher, cfg.Content.CacheTTLDuration(), log)
		snapshots = contentCache
		log.Info("Content store configured", zap.String("base_url", cfg.Content.BaseURL))
	} else {
		snapshots = content.NewStaticSource()
		log.Info("No content store configured, serving built-in content")
	}

	// Contract renderer
	renderer := pdf.NewRenderer(cfg.Onboarding.CompanyName, cfg.Onboarding.CompanyAddress, log)

	// Optional integrations
	var invoicer service.Invoicer
	if cfg.Invoicing.Enabled {
		invoicer = invoicing.NewClient(cfg.Invoicing.BaseURL, cfg.Invoicing.APIToken, cfg.Invoicing.TimeoutDuration(), log)
		log.Info("Invoicing enabled", zap.String("base_url", cfg.Invoicing.BaseURL))
	} else {
		log.Info("Invoicing disabled, submissions are accepted without deposit invoices")
	}

	var mailer service.Mailer
	if cfg.Email.Enabled {
		m, err := email.NewMailer(email.Config{
			Host:       cfg.Email.Host,
			Port:       cfg.Email.Port,
			Username:   cfg.Email.Username,
			Password:   cfg.Email.Password,
			FromName:   cfg.Email.FromName,
			FromEmail:  cfg.Email.FromEmail,
			OwnerEmail: cfg.Email.OwnerEmail,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize mailer: %w", err)
		}
		mailer = m
		log.Info("Mail delivery enabled", zap.String("host", cfg.Email.Host))
	} else {
		log.Info("Mail delivery disabled")
	}

	// Initialize repositories
	submissionRepo := repository.NewSubmissionRepository(db)
	correctionRepo := repository.NewCorrectionRepository(db)

	// Initialize services
	quoteService := service.NewQuoteService(snapshots, log)
	submissionService := service.NewSubmissionService(
		snapshots,
		renderer,
		fileStorage,
		submissionRepo,
		correctionRepo,
		invoicer,
		mailer,
		log,
	)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Admin, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	onboardingHandler := handler.NewOnboardingHandler(quoteService, submissionService, log)
	submissionHandler := handler.NewSubmissionHandler(submissionService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		quoteHandler,
		onboardingHandler,
		submissionHandler,
	)

	// Background content refresh, only when a content store is configured
	var scheduler *jobs.Scheduler
	if contentCache != nil {
		scheduler = jobs.NewScheduler(log)
		refreshJob := jobs.NewContentRefreshJob(contentCache, log, cfg.Content.TimeoutDuration())
		if err := scheduler.AddJob(jobs.ContentRefreshJobName, cfg.Content.RefreshSchedule, refreshJob.Run); err != nil {
			log.Error("Failed to register content refresh job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with content refresh job",
				zap.String("cron_expr", cfg.Content.RefreshSchedule))
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
