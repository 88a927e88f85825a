package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/islaguezul/portfolio-backend/internal/featureflags"
	"github.com/islaguezul/portfolio-backend/internal/handler"
	"github.com/islaguezul/portfolio-backend/internal/infrastructure/logger"
	"github.com/islaguezul/portfolio-backend/internal/infrastructure/redis"
	"github.com/islaguezul/portfolio-backend/internal/notify"
	"github.com/islaguezul/portfolio-backend/internal/observability/metrics"
	"github.com/islaguezul/portfolio-backend/internal/observability/tracing"
	"github.com/islaguezul/portfolio-backend/internal/repository"
	"github.com/islaguezul/portfolio-backend/internal/security/audit"
	"github.com/islaguezul/portfolio-backend/internal/security/auth"
	"github.com/islaguezul/portfolio-backend/internal/security/middleware"
	"github.com/islaguezul/portfolio-backend/internal/security/ratelimit"
	"github.com/islaguezul/portfolio-backend/internal/service"
	"github.com/islaguezul/portfolio-backend/internal/worker"
	"github.com/islaguezul/portfolio-backend/pkg/cache"
	"github.com/islaguezul/portfolio-backend/pkg/config"
	"github.com/islaguezul/portfolio-backend/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting portfolio backend", slog.String("environment", cfg.Environment))

	// Optional OTLP tracing, enabled via OTEL_EXPORTER_OTLP_ENDPOINT
	shutdownTracing, err := tracing.Init(context.Background(), log, "portfolio-backend", cfg.Environment)
	if err != nil {
		log.Warn("tracing disabled", slog.String("error", err.Error()))
	}

	// 3. Connect Postgres and ensure the schema exists
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewConnectionPool(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect Redis
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 5. Repositories
	projectRepo := repository.NewPostgresProjectRepository(db, log)
	experienceRepo := repository.NewPostgresExperienceRepository(db, log)
	educationRepo := repository.NewPostgresEducationRepository(db, log)
	techStackRepo := repository.NewPostgresTechStackRepository(db, log)
	skillsRepo := repository.NewPostgresSkillCategoryRepository(db, log)
	processRepo := repository.NewPostgresProcessStrategyRepository(db, log)
	radarRepo := repository.NewPostgresExpertiseRadarRepository(db, log)
	personalRepo := repository.NewPostgresPersonalInfoRepository(db, log)
	adminRepo := repository.NewPostgresAdminUserRepository(db, log)
	copyLogRepo := repository.NewRedisCopyLogRepository(redisClient.Raw())

	// 6. Services
	notifier := notify.NewRedisNotifier(redisClient, log)

	var locker service.CopyLocker
	if featureflags.Enabled(featureflags.CopyLock) {
		locker = redisClient
	}

	adapters := []service.EntityAdapter{
		service.NewProjectAdapter(projectRepo, log),
		service.NewExperienceAdapter(experienceRepo, log),
		service.NewEducationAdapter(educationRepo, log),
		service.NewTechStackAdapter(techStackRepo, log),
		service.NewSkillCategoryAdapter(skillsRepo, log),
		service.NewProcessStrategyAdapter(processRepo, log),
		service.NewExpertiseRadarAdapter(radarRepo, log),
	}
	copyService := service.NewCopyService(adapters, personalRepo, notifier, copyLogRepo, locker, log)

	contentCache := cache.New()
	contentService := service.NewContentService(
		personalRepo, projectRepo, experienceRepo, educationRepo,
		techStackRepo, skillsRepo, processRepo, radarRepo,
		contentCache, cfg.ContentCacheTTL, log,
	)

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "portfolio-backend")
	authService := service.NewAuthService(adminRepo, tokenManager, log)

	// 7. Security components
	rateLimiter := ratelimit.NewLimiter(100, time.Minute) // 100 requests per minute per admin
	auditLogger := audit.NewLogger(log)

	// 8. Handlers and routes
	copyHandler := handler.NewCopyHandler(copyService, log)
	conflictHandler := handler.NewConflictCheckHandler(copyService, log)
	historyHandler := handler.NewHistoryHandler(copyLogRepo, cfg.CopyHistoryLimit, log)
	contentHandler := handler.NewContentHandler(contentService, log)
	loginHandler := handler.NewLoginHandler(authService, auditLogger, log)

	mux := http.NewServeMux()
	mux.Handle("GET /api/content", contentHandler)
	mux.Handle("POST /api/admin/login", loginHandler)
	mux.Handle("POST /api/admin/copy", copyHandler)
	mux.Handle("POST /api/admin/copy/check", conflictHandler)
	mux.Handle("GET /api/admin/copy/history", historyHandler)
	mux.Handle("/metrics", promhttp.Handler())

	if featureflags.Enabled(featureflags.LiveUpdates) {
		mux.Handle("GET /ws/updates", handler.NewUpdatesHandler(redisClient, log, cfg.CORSAllowedOrigins))
	}

	// Health and readiness endpoints (no auth required)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database not ready"))
			return
		}
		if err := redisClient.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("redis not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Admin-Tenant")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> JWT -> rate limit -> audit -> content type -> CORS
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.JWTMiddleware(tokenManager, log)(
				middleware.RateLimitMiddleware(rateLimiter, log)(
					middleware.AuditMiddleware(auditLogger)(
						middleware.ValidateJSONContentType(log)(handlerWithCORS),
					),
				),
			),
		),
		log,
	)

	// 9. Start cache worker in background
	cacheWorker := worker.NewCacheWorker(contentService, redisClient, log, cfg.CacheRefreshEvery)
	go cacheWorker.Start(ctx)

	// 10. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Bool("copy_lock", locker != nil),
		slog.Bool("live_updates", featureflags.Enabled(featureflags.LiveUpdates)),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop cache worker
	rateLimiter.Stop()
	if shutdownTracing != nil {
		_ = shutdownTracing(shutdownCtx)
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
