// Package main provides the main entry point for the subscription backend
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nuvylux/subscription-backend/app/handlers"
	"github.com/nuvylux/subscription-backend/app/middleware"
	"github.com/nuvylux/subscription-backend/app/router"
	"github.com/nuvylux/subscription-backend/app/scheduler"
	"github.com/nuvylux/subscription-backend/app/services"
	businessflow "github.com/nuvylux/subscription-backend/business_flow"
	"github.com/nuvylux/subscription-backend/config"
	"github.com/nuvylux/subscription-backend/repository"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting subscription backend...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg config.EmailConfig) services.NotificationService {
	var emailProvider services.EmailProvider

	switch cfg.Provider {
	case "mailjet":
		emailProvider = services.NewMailjetEmailProvider(
			cfg.MailjetBaseURL,
			cfg.MailjetPublicKey,
			cfg.MailjetPrivateKey,
			cfg.FromEmail,
			cfg.FromName,
		)
	default:
		emailProvider = services.NewMockEmailProvider()
	}

	return services.NewNotificationService(emailProvider, cfg.FromEmail, cfg.FromName)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	trackRepo := repository.NewTrackRepository(db)
	planRepo := repository.NewPlanRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Initialize services
	notificationService := initializeNotificationService(cfg.Email)

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	paymentGateway := services.NewPaystackClient(
		cfg.Paystack.BaseURL,
		cfg.Paystack.SecretKey,
		cfg.Paystack.Timeout,
	)

	pricingSource, err := services.NewPricingSource(cfg.Pricing.Mode, planRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pricing source: %w", err)
	}

	log.Printf("Pricing source initialized in %s mode", cfg.Pricing.Mode)

	// Initialize flows
	authFlow := businessflow.NewAuthFlow(
		userRepo,
		tokenService,
		notificationService,
		db,
	)

	onboardingFlow := businessflow.NewOnboardingFlow(
		userRepo,
		companyRepo,
		pricingSource,
		db,
	)

	paymentFlow := businessflow.NewPaymentFlow(
		userRepo,
		companyRepo,
		transactionRepo,
		planRepo,
		paymentGateway,
		notificationService,
		db,
	)

	plansFlow := businessflow.NewPlansFlow(
		trackRepo,
		planRepo,
		rc,
		cfg.Cache.RedisPrefix,
		cfg.Cache.DefaultTTL,
		db,
	)

	adminFlow := businessflow.NewAdminFlow(
		companyRepo,
		transactionRepo,
		ticketRepo,
	)

	userFlow := businessflow.NewUserFlow(
		userRepo,
		planRepo,
		transactionRepo,
		ticketRepo,
	)

	ticketFlow := businessflow.NewTicketFlow(
		userRepo,
		ticketRepo,
	)

	// Initialize handlers
	secureCookies := cfg.Security.SessionCookieSecure && cfg.Deployment.Environment == "production"

	h := router.Handlers{
		Auth:       handlers.NewAuthHandler(authFlow, secureCookies),
		Onboarding: handlers.NewOnboardingHandler(onboardingFlow, secureCookies),
		Payment:    handlers.NewPaymentHandler(paymentFlow, secureCookies),
		Plans:      handlers.NewPlansHandler(plansFlow, secureCookies),
		Admin:      handlers.NewAdminHandler(adminFlow, ticketFlow, secureCookies),
		User:       handlers.NewUserHandler(userFlow, secureCookies),
		Ticket:     handlers.NewTicketHandler(ticketFlow, secureCookies),
	}

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	// Start billing sweep worker
	if cfg.Scheduler.BillingSweepEnabled {
		billingScheduler := scheduler.NewBillingScheduler(
			companyRepo,
			notificationService,
			log.Default(),
			cfg.Scheduler.BillingSweepInterval,
		)
		stopFuncs = append(stopFuncs, billingScheduler.Start(context.Background()))
		log.Printf("Billing sweep scheduler started (interval %s)", cfg.Scheduler.BillingSweepInterval)
	}

	// Initialize router
	appRouter := router.NewFiberRouter(router.Config{
		AppName:          "Subscription Backend v" + cfg.Deployment.Version,
		AllowedOrigins:   cfg.Security.AllowedOrigins,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsPath:      cfg.Metrics.Path,
		AccessLogFile:    accessLogFile(cfg.Logging),
		AccessLogMaxSize: cfg.Logging.AccessLogMaxSize,
		AccessLogBackups: cfg.Logging.AccessLogBackups,
		AccessLogMaxAge:  cfg.Logging.AccessLogMaxAge,
	}, h, authMiddleware)

	return &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}, nil
}

func accessLogFile(cfg config.LoggingConfig) string {
	if !cfg.EnableAccessLog {
		return ""
	}
	return cfg.AccessLogPath
}
