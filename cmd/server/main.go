package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobzee/jobzee/auth"
	"github.com/jobzee/jobzee/internal/cache"
	"github.com/jobzee/jobzee/internal/config"
	"github.com/jobzee/jobzee/internal/db"
	"github.com/jobzee/jobzee/internal/events"
	"github.com/jobzee/jobzee/internal/log"
	"github.com/jobzee/jobzee/internal/policy"
	"github.com/jobzee/jobzee/internal/repository"
	"github.com/jobzee/jobzee/internal/services"
	"github.com/jobzee/jobzee/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

// principalCacheTTL bounds how long a role or company change can take to
// reach the permission checks of a user's other sessions.
const principalCacheTTL = 5 * time.Minute

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log.Configure(log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := log.WithComponent("server")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	dbConn, err := db.Open(cfg.Database, log.WithComponent("db"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() { _ = db.Close(dbConn) }()

	seedOpts := db.SeedOptions{
		AdminEmail:    cfg.App.AdminEmail,
		AdminPassword: cfg.App.AdminPassword,
		BcryptCost:    cfg.Auth.BcryptCost,
	}

	if *migrateOnlyFlag {
		if err := db.Run(dbConn, cfg.Database); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed successfully")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn, seedOpts); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		logger.Info().Msg("seeding completed successfully")
		return
	}

	if cfg.App.Migrations {
		if err := db.Run(dbConn, cfg.Database); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed")
	}
	if err := db.Seed(dbConn, seedOpts); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := connectCache(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis unavailable")
	}
	defer func() { _ = kv.Close() }()

	publisher := newPublisher(cfg.Kafka)
	defer func() { _ = publisher.Close() }()

	objects := newObjectStore(ctx, cfg.Storage, logger)

	users := repository.NewUserRepository(dbConn)
	companies := repository.NewCompanyRepository(dbConn)
	jobs := repository.NewJobRepository(dbConn)
	candidates := repository.NewCandidateRepository(dbConn)
	apps := repository.NewApplicationRepository(dbConn)

	authGate := policy.NewAuthGate(policy.NewRoleResolver(users), principalCacheTTL)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	applicationSvc := services.NewApplicationService(apps, jobs, candidates, authGate, publisher)

	routerCfg := &RouterConfig{
		DB:             dbConn,
		Cache:          kv,
		AuthGate:       authGate,
		Logger:         log.WithComponent("http"),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthRateLimit:  cfg.Server.AuthRateLimit,
		Auth:           services.NewAuthService(users, issuer, cache.NewTokenStore(kv), publisher, cfg.Auth),
		Users:          services.NewUserService(users, companies, authGate),
		Companies:      services.NewCompanyService(companies, authGate),
		Jobs:           services.NewJobService(jobs, companies, kv, authGate, publisher),
		Candidates:     services.NewCandidateService(candidates, users, objects, authGate),
		Applications:   applicationSvc,
		Matches:        services.NewMatchService(jobs, candidates, authGate),
		Agents:         services.NewAgentService(cfg.Agents),
	}

	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		consumer := events.NewRecommendationConsumer(cfg.Kafka, applicationSvc, log.WithComponent("kafka"))
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("recommendation consumer stopped")
			}
			_ = consumer.Close()
		}()
	} else {
		close(consumerDone)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(routerCfg),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
	<-consumerDone
	logger.Info().Msg("server stopped gracefully")
}

// connectCache returns Redis, or the in-memory cache when Redis is
// unreachable and not required.
func connectCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (cache.Cache, error) {
	rc, err := cache.NewRedisCache(ctx, cfg, log.WithComponent("redis"))
	if err == nil {
		return rc, nil
	}
	if cfg.Required {
		return nil, err
	}
	logger.Warn().Err(err).Msg("redis unreachable, using in-memory cache")
	return cache.NewMemoryCache(time.Minute), nil
}

func newPublisher(cfg config.KafkaConfig) events.Publisher {
	if cfg.Enabled {
		return events.NewKafkaPublisher(cfg, log.WithComponent("kafka"))
	}
	return events.NewLogPublisher(log.WithComponent("events"))
}

// newObjectStore returns the S3 store, or an in-memory one when storage is
// disabled or the bucket cannot be prepared.
func newObjectStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) storage.ObjectStore {
	if !cfg.Enabled {
		return storage.NewMemoryStore("/files")
	}
	s3, err := storage.NewS3Store(ctx, cfg, log.WithComponent("storage"))
	if err == nil {
		err = s3.EnsureBucket(ctx)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("object storage unavailable, resumes kept in memory")
		return storage.NewMemoryStore("/files")
	}
	return s3
}
