package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mbills-payments/internal/config"
	"mbills-payments/internal/domain/model"
	"mbills-payments/internal/domain/ports/repository"
	"mbills-payments/internal/infra/adapters/mbills"
	"mbills-payments/internal/infra/api"
	"mbills-payments/internal/infra/api/apiv1"
	"mbills-payments/internal/infra/db/memory"
	pg "mbills-payments/internal/infra/db/postgres"
	"mbills-payments/internal/infra/db/sqlite"
	"mbills-payments/internal/infra/i18n"
	"mbills-payments/internal/infra/logging"
	"mbills-payments/internal/infra/metrics"
	red "mbills-payments/internal/infra/redis"
	"mbills-payments/internal/infra/security"
	"mbills-payments/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted nonces)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("service stopped with error")
	}
	logger.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	// ---- Correlation store ----
	store, tm, closeStore, err := openStore(ctx, g, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ---- Redis (optional) ----
	var limiter api.Limiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		store = red.NewCorrelationCache(store, redisClient, cfg.Redis.TTL, logger)
		limiter = red.NewRateLimiter(redisClient)
		logger.Info().Msg("redis cache and webhook rate limiting enabled")
	}

	// ---- Gateway ----
	creds, err := model.NewCredentials(cfg.MBills.APIKey, cfg.MBills.APISecret, cfg.MBills.Production)
	if err != nil {
		return fmt.Errorf("mbills credentials: %w", err)
	}
	tokens := security.NewTokenGenerator(nil)
	signer, err := mbills.NewSigner(creds.APIKey, creds.APISecret, tokens, nil)
	if err != nil {
		return err
	}
	gw := usecase.GatewayDeps{
		Transport:  mbills.NewHTTPTransport(nil, cfg.MBills.Timeout, logger),
		Signer:     signer,
		Endpoints:  mbills.NewEndpoints(creds.Production, cfg.MBills.BaseURL),
		Production: creds.Production,
	}

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(store, gw, tokens, logger)
	statusUC := usecase.NewStatusUseCase(gw, logger)
	webhookUC := usecase.NewWebhookUseCase(store, tm, logger)

	// ---- HTTP ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.HTTP.WebhookLang)
	if err != nil {
		return err
	}
	handler := api.NewRouter(api.RouterDeps{
		Webhook: api.NewServer(webhookUC, statusUC, webhookPath(cfg), cfg.MBills.DeleteNonceOnWebhook, logger).WithTranslator(tr),
		API: apiv1.NewServer(paymentUC, statusUC, apiv1.Defaults{
			WebhookURL: cfg.MBills.WebhookURL,
			AppName:    cfg.MBills.AppName,
			ChannelID:  cfg.MBills.ChannelID,
		}, logger),
		Auth:           api.NewAuthManager(cfg.HTTP.JWTSecret, 0),
		Limiter:        limiter,
		LimiterKey:     red.WebhookClientKey,
		RateLimit:      cfg.HTTP.WebhookRateLimit,
		RateWindow:     cfg.HTTP.WebhookRateWindow,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         logger,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info().Int("port", cfg.HTTP.Port).Bool("production", creds.Production).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore selects the correlation backend; background work is attached to g.
func openStore(ctx context.Context, g *errgroup.Group, cfg *config.Config, logger *zerolog.Logger) (repository.CorrelationStore, repository.TransactionManager, func(), error) {
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("postgres: %w", err)
		}
		if cfg.Database.EnsureSchema {
			if err := pg.EnsureSchema(ctx, pool, cfg.Database.Table); err != nil {
				pool.Close()
				return nil, nil, nil, err
			}
		}
		g.Go(func() error { return pg.ReportPoolStats(ctx, pool, 15*time.Second, logger) })
		logger.Info().Str("table", cfg.Database.Table).Msg("using postgres correlation store")
		return pg.NewCorrelationStore(pool, cfg.Database.Table), pg.NewTxManager(pool), pool.Close, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		if err := sqlite.RunMigrations(db, cfg.Database.Table); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("sqlite migrations: %w", err)
		}
		logger.Info().Str("path", cfg.Database.URL).Msg("using sqlite correlation store")
		return sqlite.NewCorrelationStore(db, cfg.Database.Table), sqlite.NewTxManager(db), func() { _ = db.Close() }, nil

	default:
		logger.Warn().Msg("using in-memory correlation store; records are lost on restart")
		return memory.NewCorrelationStore(), memory.NewTxManager(), func() {}, nil
	}
}

// webhookPath prefers the path of the public webhook URL over http.webhook_path.
func webhookPath(cfg *config.Config) string {
	if u, err := url.Parse(cfg.MBills.WebhookURL); err == nil && u.Path != "" && u.Path != "/" {
		return u.Path
	}
	return cfg.HTTP.WebhookPath
}
