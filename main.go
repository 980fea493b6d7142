package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/chatbot-admin/pkg/audit"
	"github.com/ekaya-inc/chatbot-admin/pkg/auth"
	"github.com/ekaya-inc/chatbot-admin/pkg/cache"
	"github.com/ekaya-inc/chatbot-admin/pkg/config"
	"github.com/ekaya-inc/chatbot-admin/pkg/database"
	"github.com/ekaya-inc/chatbot-admin/pkg/handlers"
	"github.com/ekaya-inc/chatbot-admin/pkg/logging"
	"github.com/ekaya-inc/chatbot-admin/pkg/middleware"
	"github.com/ekaya-inc/chatbot-admin/pkg/repositories"
	"github.com/ekaya-inc/chatbot-admin/pkg/retry"
	"github.com/ekaya-inc/chatbot-admin/pkg/services"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.String("redis", cfg.Redis.Host))

	dbURL := cfg.Database.URL()
	db, err := retry.DoWithResult(ctx, startupRetry(logger, "postgres"), func(ctx context.Context) (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:             dbURL,
			MaxConnections:  cfg.Database.MaxConnections,
			ApplicationName: handlers.ServiceName,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate(dbURL, logger); err != nil {
		return err
	}

	redisClient, err := retry.DoWithResult(ctx, startupRetry(logger, "redis"), func(ctx context.Context) (*redis.Client, error) {
		return database.NewRedisClient(ctx, &cfg.Redis)
	})
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	} else {
		logger.Info("Redis not configured, entity cache disabled")
	}
	entityCache := cache.NewRedisCache(redisClient, cfg.AppName,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger.Named("cache"))

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
		Audience:           cfg.Auth.Audience,
	})
	if err != nil {
		return fmt.Errorf("failed to create JWKS client: %w", err)
	}
	defer jwksClient.Close()
	authMiddleware := auth.NewMiddleware(auth.NewAuthService(jwksClient, logger.Named("auth")), logger.Named("auth"))

	// Repositories
	botRepo := repositories.NewBotRepository()
	intentRepo := repositories.NewIntentRepository()
	entityRepo := repositories.NewIntentEntityRepository()
	responseRepo := repositories.NewIntentResponseRepository()
	utteranceRepo := repositories.NewUtteranceRepository()
	followupRepo := repositories.NewFollowupRepository()

	// Services
	tx := database.NewTxRunner()
	svcLogger := logger.Named("services")
	botService := services.NewBotService(botRepo, tx, entityCache, svcLogger)
	intentService := services.NewIntentService(intentRepo, tx, svcLogger)
	entityService := services.NewIntentEntityService(entityRepo, tx, svcLogger)
	responseService := services.NewIntentResponseService(responseRepo, tx, entityCache, svcLogger)
	utteranceService := services.NewUtteranceService(utteranceRepo, tx, svcLogger)
	followupService := services.NewFollowupService(followupRepo, tx, svcLogger)
	knowledgeBase := services.NewKnowledgeBaseService(botRepo, intentRepo, responseRepo,
		utteranceRepo, followupRepo, tx, svcLogger)

	// Handlers
	hLogger := logger.Named("handlers")
	auditor := audit.NewSecurityAuditor(logger)
	pager := handlers.NewPager(cfg.Pagination, auditor, hLogger)
	scope := handlers.ScopeMiddleware(database.WithScope(db, logger))

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, hLogger).RegisterRoutes(mux)
	handlers.NewBotHandler(botService, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewIntentHandler(intentService, pager, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewIntentEntityHandler(entityService, pager, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewIntentResponseHandler(responseService, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewUtteranceHandler(utteranceService, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewFollowupHandler(followupService, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)
	handlers.NewExportHandler(knowledgeBase, auditor, cfg.AppName, hLogger).RegisterRoutes(mux, authMiddleware, scope)

	handler := middleware.RequestID()(middleware.RequestLogger(logger.Named("http"))(mux))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting chatbot-admin",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version),
			zap.Bool("tls", cfg.TLSCertPath != ""))
		var err error
		if cfg.TLSCertPath != "" {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// startupRetry logs each failed connection attempt to a backing service.
func startupRetry(logger *zap.Logger, service string) *retry.Config {
	cfg := retry.StartupConfig()
	cfg.OnRetry = func(attempt int, err error) {
		logger.Warn("Backing service not reachable, retrying",
			zap.String("service", service),
			zap.Int("attempt", attempt),
			zap.String("error", logging.SanitizeError(err)))
	}
	return cfg
}

// migrate applies pending schema migrations over a short-lived database/sql handle.
func migrate(dbURL string, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger.Named("migrations")); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
