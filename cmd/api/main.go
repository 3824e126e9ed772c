package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mgodoy/bookkeeper-api/docs" // Swagger docs
	"github.com/mgodoy/bookkeeper-api/internal/config"
	"github.com/mgodoy/bookkeeper-api/internal/database"
	"github.com/mgodoy/bookkeeper-api/internal/handlers"
	"github.com/mgodoy/bookkeeper-api/internal/jobs"
	"github.com/mgodoy/bookkeeper-api/internal/middleware"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/mgodoy/bookkeeper-api/internal/storage"
	"github.com/mgodoy/bookkeeper-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Bookkeeper API
// @version 1.0
// @description REST API for a single-user double-entry bookkeeping system

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Sentry is optional; skip when no DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate schema", "error", err)
		os.Exit(1)
	}
	if err := database.Seed(db, cfg); err != nil {
		logger.Error("Failed to seed chart of accounts", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg)

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs, store)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Chart of accounts
			accounts := protected.Group("/accounts")
			{
				accounts.GET("", h.Account.Index)
				accounts.POST("", h.Account.Create)
				accounts.GET("/:account_id", h.Account.Show)
				accounts.DELETE("/:account_id", h.Account.Deactivate)
				accounts.GET("/:account_id/verify", h.Account.Verify)
			}

			// Ledger
			transactions := protected.Group("/transactions")
			{
				// Static route first so "trial_balance" is not matched as :transaction_id
				transactions.GET("/trial_balance", h.Transaction.TrialBalance)
				transactions.GET("", h.Transaction.Index)
				transactions.POST("", h.Transaction.Create)
				transactions.GET("/:transaction_id", h.Transaction.Show)
				transactions.PUT("/:transaction_id", h.Transaction.Update)
				transactions.DELETE("/:transaction_id", h.Transaction.Delete)
			}

			// Scheduled transactions
			scheduled := protected.Group("/scheduled_transactions")
			{
				scheduled.GET("/due", h.Scheduled.Due)
				scheduled.POST("/process_due", h.Scheduled.ProcessDue)
				scheduled.GET("", h.Scheduled.Index)
				scheduled.PUT("/:scheduled_id", h.Scheduled.Update)
				scheduled.POST("/:scheduled_id/postpone", h.Scheduled.Postpone)
				scheduled.DELETE("/:scheduled_id", h.Scheduled.Delete)
			}

			// Recurring transaction definitions
			recurring := protected.Group("/recurring_transactions")
			{
				recurring.GET("", h.Recurring.Index)
				recurring.POST("", h.Recurring.Create)
				recurring.GET("/:recurring_id", h.Recurring.Show)
				recurring.DELETE("/:recurring_id", h.Recurring.Delete)
			}

			// Fixed assets and depreciation
			assets := protected.Group("/assets")
			{
				assets.GET("", h.Asset.Index)
				assets.POST("", h.Asset.Create)
				assets.POST("/import", h.Asset.Import)
				assets.GET("/:asset_id", h.Asset.Show)
				assets.GET("/:asset_id/schedule", h.Asset.Schedule)
				assets.POST("/:asset_id/schedule", h.Asset.GenerateSchedule)
			}

			// Reports and exports
			reports := protected.Group("/reports")
			{
				reports.GET("/ledger_csv", h.Report.LedgerCSV)
				reports.GET("/trial_balance_csv", h.Report.TrialBalanceCSV)
				reports.GET("/account_statement_pdf", h.Report.AccountStatementPDF)
				reports.GET("/ledger_xlsx", h.Report.LedgerXLSX)
				reports.GET("/depreciation_xlsx", h.Report.ScheduleXLSX)
				reports.GET("/depreciation_pdf", h.Report.SchedulePDF)
				reports.POST("/archive_depreciation", h.Report.ArchiveSchedule)
			}

			// Background worker status
			protected.GET("/jobs/status", h.Job.Status)
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Daily due-entry reminder. Posting stays user-driven; this only logs
	// what is waiting so nothing silently piles up.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		due, err := svcs.Scheduled.Due(ctx, time.Now())
		if err != nil {
			return err
		}
		if len(due) > 0 {
			logger.Info("[Job] Scheduled transactions awaiting review", "count", len(due))
		}
		return nil
	})

	logger.Info("Scheduled recurring jobs")
}
