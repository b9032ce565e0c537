// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"os"
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/app/handlers"
	"github.com/nuvylux/subscription-backend/app/middleware"
	"github.com/nuvylux/subscription-backend/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config carries the router-facing settings
type Config struct {
	AppName        string
	AllowedOrigins []string
	MetricsEnabled bool
	MetricsPath    string

	// Access log rotation. An empty file path logs to stdout.
	AccessLogFile    string
	AccessLogMaxSize int // MB
	AccessLogBackups int
	AccessLogMaxAge  int // days
}

// Handlers bundles every handler the router mounts
type Handlers struct {
	Auth       handlers.AuthHandlerInterface
	Onboarding handlers.OnboardingHandlerInterface
	Payment    handlers.PaymentHandlerInterface
	Plans      handlers.PlansHandlerInterface
	Admin      handlers.AdminHandlerInterface
	User       handlers.UserHandlerInterface
	Ticket     handlers.TicketHandlerInterface
}

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown() error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      Config
	handlers Handlers
	authMw   *middleware.AuthMiddleware
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg Config, h Handlers, authMw *middleware.AuthMiddleware) Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		authMw:   authMw,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	if r.cfg.MetricsEnabled {
		path := r.cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api/v1")

	api.Get("/health", r.healthCheck)

	// General rate limit by IP
	api.Use(limiter.New(limiter.Config{
		Max:        2000,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public catalog
	api.Get("/plans", r.handlers.Plans.ListCatalog)

	// Auth endpoints, with a tighter limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: rateLimitReached,
	}))

	auth.Post("/register", r.handlers.Auth.Register)
	auth.Post("/login", r.handlers.Auth.Login)
	auth.Post("/refresh", r.handlers.Auth.Refresh)
	auth.Post("/logout", r.handlers.Auth.Logout)
	auth.Post("/forgot-password", r.handlers.Auth.ForgotPassword)
	auth.Post("/verify-reset-code", r.handlers.Auth.VerifyResetCode)
	auth.Post("/set-new-password", r.handlers.Auth.SetNewPassword)

	// Onboarding (authenticated)
	onboarding := api.Group("/onboarding", r.authMw.Authenticate())
	onboarding.Put("/profile", r.handlers.Onboarding.UpdateProfile)
	onboarding.Put("/company", r.handlers.Onboarding.UpsertCompany)
	onboarding.Post("/plans", r.handlers.Onboarding.SelectPlans)

	// Payment reconciliation (authenticated)
	payment := api.Group("/payment", r.authMw.Authenticate())
	payment.Post("/verify", r.handlers.Payment.VerifyPayment)

	// Authenticated user surface
	user := api.Group("/user", r.authMw.Authenticate())
	user.Get("/me", r.handlers.User.Me)
	user.Post("/change-password", r.handlers.User.ChangePassword)
	user.Get("/dashboard", r.handlers.User.Dashboard)
	user.Post("/tickets", r.handlers.Ticket.CreateTicket)
	user.Get("/tickets", r.handlers.Ticket.ListMyTickets)

	// Back office
	admin := api.Group("/admin", r.authMw.Authenticate(), r.authMw.RequireAdmin())
	admin.Get("/subscribers", r.handlers.Admin.ListSubscribers)
	admin.Get("/subscribers/export", r.handlers.Admin.ExportSubscribers)
	admin.Patch("/subscribers/:id/status", r.handlers.Admin.UpdateSubscriptionStatus)
	admin.Get("/stats", r.handlers.Admin.Stats)
	admin.Post("/tracks", r.handlers.Plans.CreateTrack)
	admin.Patch("/tracks/:id", r.handlers.Plans.UpdateTrack)
	admin.Delete("/tracks/:id", r.handlers.Plans.DeleteTrack)
	admin.Post("/tracks/:id/plans", r.handlers.Plans.CreatePlan)
	admin.Patch("/plans/:id", r.handlers.Plans.UpdatePlan)
	admin.Delete("/plans/:id", r.handlers.Plans.DeletePlan)
	admin.Patch("/tickets/:id/status", r.handlers.Admin.UpdateTicketStatus)

	r.app.Use(r.notFoundHandler)
}

func (r *FiberRouter) setupMiddleware() {
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		XDNSPrefetchControl:   "off",
		XDownloadOptions:      "noopen",
		XPermittedCrossDomain: "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.AllowedOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Stream:     r.accessLogWriter(),
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// accessLogWriter returns a size-rotated log file, or stdout when no
// file is configured
func (r *FiberRouter) accessLogWriter() io.Writer {
	if r.cfg.AccessLogFile == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   r.cfg.AccessLogFile,
		MaxSize:    r.cfg.AccessLogMaxSize,
		MaxBackups: r.cfg.AccessLogBackups,
		MaxAge:     r.cfg.AccessLogMaxAge,
		Compress:   true,
	}
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// Shutdown gracefully stops the HTTP server
func (r *FiberRouter) Shutdown() error {
	return r.app.Shutdown()
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"service":   r.cfg.AppName,
		},
	})
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":   c.Path(),
				"method": c.Method(),
			},
		},
	})
}

func rateLimitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
		Success: false,
		Message: "Too many requests. Please try again later.",
		Error: dto.ErrorDetail{
			Code: "RATE_LIMIT_EXCEEDED",
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error %d: %v", code, err)

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": c.Locals("requestid"),
			},
		},
	})
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
