package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/boglefolio/internal/adapter/http"
	"github.com/iho/boglefolio/internal/adapter/http/handler"
	"github.com/iho/boglefolio/internal/adapter/http/middleware"
	"github.com/iho/boglefolio/internal/adapter/http/web"
	postgresRepo "github.com/iho/boglefolio/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/boglefolio/internal/adapter/repository/redis"
	"github.com/iho/boglefolio/internal/infrastructure/auth"
	"github.com/iho/boglefolio/internal/infrastructure/config"
	"github.com/iho/boglefolio/internal/infrastructure/logger"
	"github.com/iho/boglefolio/internal/infrastructure/marketdata"
	"github.com/iho/boglefolio/internal/infrastructure/postgres"
	"github.com/iho/boglefolio/internal/infrastructure/redis"
	"github.com/iho/boglefolio/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Database
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	assetRepo := postgresRepo.NewAssetRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool, retrier)
	userRepo := postgresRepo.NewUserRepository(pool)
	idGen := postgresRepo.NewUUIDGenerator()
	quoteCache := redisRepo.NewCache(redisClient)
	sessions := redisRepo.NewSessionStore(redisClient)

	// Market data
	quotes := marketdata.NewYahooClient(cfg.MarketDataBaseURL, cfg.MarketDataTimeout, appLogger)

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	assetUC := usecase.NewAssetUseCase(assetRepo, quotes, quoteCache, cfg.QuoteCacheTTL, idGen, appLogger)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo, accountRepo, assetRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	importUC := usecase.NewImportUseCase(txManager, accountRepo, assetRepo, transactionRepo, idGen, appLogger)
	statsUC := usecase.NewStatsUseCase(userRepo, accountRepo, assetRepo, transactionRepo)

	// Authentication
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	var sso *auth.OIDCAuthenticator
	if cfg.SSOEnabled() {
		sso, err = auth.NewOIDCAuthenticator(ctx, auth.OIDCConfig{
			IssuerURL:    cfg.OIDCIssuerURL,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure SSO")
		}
		log.Info().Str("issuer", cfg.OIDCIssuerURL).Msg("SSO enabled")
	}

	// Handlers
	webHandler, err := web.NewHandler(web.Config{
		StatsUC:       statsUC,
		UserUC:        userUC,
		AccountUC:     accountUC,
		AssetUC:       assetUC,
		TransactionUC: transactionUC,
		ImportUC:      importUC,
		Sessions:      sessions,
		SSO:           sso,
		Logger:        appLogger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		AssetHandler:       handler.NewAssetHandler(assetUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		UserHandler:        handler.NewUserHandler(userUC),
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		ImportHandler:      handler.NewImportHandler(importUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		WebHandler:         webHandler,
		JWTManager:         jwtManager,
		Sessions:           sessions,
		LoginRateLimit:     middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
		Logging:            middleware.NewLoggingMiddleware(appLogger),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
