package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promohub/internal/config"
	pg "promohub/internal/infra/db/postgres"
	"promohub/internal/infra/logging"
	"promohub/internal/infra/metrics"
	red "promohub/internal/infra/redis"
	"promohub/internal/infra/web"
	"promohub/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	tokenStore := red.NewTokenStore(redisClient)

	// ---- Repositories ----
	promoRepo := pg.NewPromoRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	companyRepo := pg.NewCompanyRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Use cases ----
	companyUC := usecase.NewCompanyUseCase(companyRepo, txManager, logger)
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	promoUC := usecase.NewPromoUseCase(promoRepo, txManager, logger)
	feedUC := usecase.NewFeedUseCase(promoRepo, txManager, logger)
	activationUC := usecase.NewActivationUseCase(promoRepo, userRepo, txManager, logger)

	// ---- HTTP ----
	metrics.MustRegister()
	authManager := web.NewAuthManager(cfg.Auth.Secret, cfg.Auth.TTL, tokenStore)
	srv := web.NewServer(companyUC, userUC, promoUC, feedUC, activationUC, authManager, rateLimiter, cfg.RateLimit, logger)

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
