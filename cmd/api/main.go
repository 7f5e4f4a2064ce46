package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certiswift/certiswift-api/config"
	"github.com/certiswift/certiswift-api/internal/cache"
	"github.com/certiswift/certiswift-api/internal/handlers"
	"github.com/certiswift/certiswift-api/internal/middleware"
	"github.com/certiswift/certiswift-api/internal/repository"
	"github.com/certiswift/certiswift-api/internal/services"
	"github.com/certiswift/certiswift-api/internal/web"
	"github.com/certiswift/certiswift-api/pkg/db"
	"github.com/certiswift/certiswift-api/pkg/httpclient"
	"github.com/certiswift/certiswift-api/pkg/jwt"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"github.com/certiswift/certiswift-api/pkg/metrics"
	"github.com/certiswift/certiswift-api/pkg/profiling"
	"github.com/certiswift/certiswift-api/pkg/storage"
	"github.com/certiswift/certiswift-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	formBodyLimit   = 16 * 1024
	jsonBodyLimit   = 1 * 1024 * 1024
	uploadBodyLimit = 8 * 1024 * 1024 // 5MB image, base64 or multipart encoded
)

type rateLimiters struct {
	general *middleware.RateLimiter
	auth    *middleware.RateLimiter
	rating  *middleware.RateLimiter
}

type appHandlers struct {
	pages   *handlers.PagesHandler
	courses *handlers.CourseHandler
	ratings *handlers.RatingHandler
	auth    *handlers.AdminAuthHandler
	uploads *handlers.UploadHandler
	catalog *handlers.CatalogHandler
	health  *handlers.HealthHandler
}

// registerPageRoutes registers the server-rendered pages. Admin pages are
// guarded by the global AdminPageGate.
func registerPageRoutes(router *gin.Engine, limiters rateLimiters, h appHandlers) {
	router.GET("/", h.pages.Home)
	router.GET("/courses", limiters.general.PageMiddleware(), h.pages.CoursesPage)
	router.GET("/course/:id", limiters.general.PageMiddleware(), h.pages.CoursePage)
	router.POST("/course/:id/ratings", limiters.rating.PageMiddleware(), middleware.BodySizeLimitMiddleware(formBodyLimit), h.pages.SubmitRating)

	router.GET("/admin/login", h.pages.LoginPage)
	router.POST("/admin/login", limiters.auth.PageMiddleware(), middleware.BodySizeLimitMiddleware(formBodyLimit), h.pages.Login)

	admin := router.Group("/admin")
	admin.GET("", h.pages.Dashboard)
	admin.POST("/courses", middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.pages.CreateCourse)
	admin.POST("/courses/:id", middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.pages.UpdateCourse)
	admin.POST("/courses/:id/delete", h.pages.DeleteCourse)
	admin.POST("/admins", middleware.BodySizeLimitMiddleware(formBodyLimit), h.pages.CreateAdmin)
	admin.POST("/test-connection", h.pages.TestConnection)
	admin.POST("/logout", h.pages.Logout)
}

// registerAPIRoutes registers the JSON API under /api
func registerAPIRoutes(router *gin.Engine, limiters rateLimiters, h appHandlers, apiGate gin.HandlerFunc) {
	api := router.Group("/api")
	api.GET("/healthcheck", limiters.general.Middleware(), h.health.Healthcheck)
	api.GET("/metrics", limiters.general.Middleware(), gin.WrapH(promhttp.Handler()))
	api.GET("/catalog/options", limiters.general.Middleware(), h.catalog.GetOptions)

	courses := api.Group("/courses", limiters.general.Middleware())
	courses.GET("", h.courses.ListCourses)
	courses.GET("/:id", h.courses.GetCourse)
	courses.PUT("/:id", apiGate, middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.courses.UpdateCourse)
	courses.DELETE("/:id", apiGate, h.courses.DeleteCourse)
	courses.GET("/:id/ratings", h.ratings.ListRatings)
	courses.POST("/:id/ratings", limiters.rating.Middleware(), middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.ratings.CreateRating)

	api.POST("/admin/login", limiters.auth.Middleware(), middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.auth.Login)
	api.POST("/admin/logout", h.auth.Logout)

	admin := api.Group("/admin", limiters.general.Middleware(), apiGate)
	admin.GET("/session", h.auth.GetSession)
	admin.GET("/courses", h.courses.ListCourses)
	admin.POST("/courses", middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.courses.CreateCourse)
	admin.PUT("/courses/:id", middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.courses.UpdateCourse)
	admin.DELETE("/courses/:id", h.courses.DeleteCourse)
	admin.POST("/admins", middleware.BodySizeLimitMiddleware(jsonBodyLimit), h.auth.CreateAdmin)
	admin.GET("/test-connection", h.auth.TestConnection)
	admin.POST("/uploads/images", middleware.BodySizeLimitMiddleware(uploadBodyLimit), h.uploads.UploadImage)
}

// newSessionStore picks the session backend named by SESSION_STORE
func newSessionStore(cfg config.SessionConfig) cache.SessionStore {
	ttl := time.Duration(cfg.TTLHours) * time.Hour
	if cfg.Store == config.SessionStoreSigned {
		logger.Info("Using signed admin sessions", zap.Duration("ttl", ttl))
		return cache.NewSignedSessionStore(jwt.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, ttl))
	}
	logger.Info("Using in-memory admin sessions", zap.Duration("ttl", ttl))
	return cache.NewMemorySessionStore(ttl)
}

// newObjectStorage returns nil when no bucket is configured, which disables uploads
func newObjectStorage(cfg config.StorageConfig) (services.ObjectStorage, error) {
	if !cfg.Enabled() {
		logger.Warn("Object storage not configured: course images will be stored inline")
		return nil, nil
	}
	client, err := storage.NewStorageClient(storage.Config{
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		BucketName:      cfg.BucketName,
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		PublicURL:       cfg.PublicURL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Certiswift API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	// Background workers stop when the server shuts down
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Migrations run separately: ./migrate up

	objectStore, err := newObjectStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize object storage client", zap.Error(err))
	}

	courseRepo := repository.NewCourseRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	pingRepo := repository.NewPingRepository(pool)

	httpClient := httpclient.NewStandardClient()

	imageService := services.NewImageService(objectStore)
	courseService := services.NewCourseService(courseRepo, imageService, cfg, httpClient)
	ratingService := services.NewRatingService(ratingRepo, cfg, httpClient)
	authService := services.NewAdminAuthService(adminRepo, newSessionStore(cfg.Session), pingRepo, cfg)
	catalogService := services.NewCatalogService()

	if err := authService.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	h := appHandlers{
		pages:   handlers.NewPagesHandler(courseService, ratingService, authService, imageService, catalogService),
		courses: handlers.NewCourseHandler(courseService),
		ratings: handlers.NewRatingHandler(ratingService),
		auth:    handlers.NewAdminAuthHandler(authService),
		uploads: handlers.NewUploadHandler(imageService),
		catalog: handlers.NewCatalogHandler(catalogService),
		health:  handlers.NewHealthHandler(pingRepo),
	}

	templates, err := web.Templates()
	if err != nil {
		logger.Fatal("Failed to parse page templates", zap.Error(err))
	}

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.SetHTMLTemplate(templates)

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // admin-session cookie
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.AdminPageGate(authService, cfg.Session.CookieSecure))

	limiters := rateLimiters{
		general: middleware.NewRateLimiter(ctx, 100, 200), // 100 req/sec, burst of 200
		auth:    middleware.NewRateLimiter(ctx, 0.1, 5),   // 1 req/10s, burst of 5 (login abuse prevention)
		rating:  middleware.NewRateLimiter(ctx, 0.2, 5),   // 1 req/5s, burst of 5 (rating spam)
	}

	registerPageRoutes(router, limiters, h)
	registerAPIRoutes(router, limiters, h, middleware.AdminAPIGate(authService, cfg.Session.CookieSecure))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
