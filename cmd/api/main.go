package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/dynamo"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/identity"
	jwtinfra "github.com/YogeshxSaini/bluestock/internal/infrastructure/jwt"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/memory"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/postgres"
	redisinfra "github.com/YogeshxSaini/bluestock/internal/infrastructure/redis"
	s3infra "github.com/YogeshxSaini/bluestock/internal/infrastructure/s3"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/smtp"
	"github.com/YogeshxSaini/bluestock/internal/infrastructure/sns"
	transporthttp "github.com/YogeshxSaini/bluestock/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func run(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	// DynamoDB always backs the media catalog; it also holds the ledger when selected.
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, cfg.LedgerBackend == config.LedgerDynamo)

	var ledger transporthttp.VerificationLedger
	switch cfg.LedgerBackend {
	case config.LedgerRedis:
		rdb, err := redisinfra.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		ledger = redisinfra.NewLedger(rdb)
	case config.LedgerDynamo:
		ledger = dynamo.NewVerificationLedger(dynamoClient, cfg.DynamoTables.Verifications)
	default:
		slog.Warn("using in-process verification ledger; codes are not shared between instances")
		ledger = memory.NewLedger()
	}

	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.AWSRegion)
	if err != nil {
		return err
	}
	s3Store := s3infra.NewStore(s3infra.NewClient(awsCfg, cfg), cfg)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	var provider transporthttp.IdentityProvider
	if cfg.IdentityProvider == config.IdentityLocal {
		slog.Warn("using local identity provider; accounts are not mirrored externally")
		provider = identity.NewLocal()
	} else {
		fb, err := identity.NewFirebase(ctx, cfg)
		if err != nil {
			return err
		}
		provider = fb
	}

	deps := &transporthttp.Deps{
		Accounts:    postgres.NewAccountRepo(pool),
		Companies:   postgres.NewCompanyRepo(pool),
		Ledger:      ledger,
		Identity:    provider,
		Objects:     s3Store,
		MediaRepo:   dynamo.NewMediaRepo(dynamoClient, cfg.DynamoTables.Media),
		JWTProvider: jwtProvider,
		DB:          pool,
		Storage:     s3Store,
	}
	if cfg.SMTPHost != "" {
		deps.Mailer = smtp.NewMailer(cfg)
	} else {
		slog.Warn("SMTP_HOST not set; verification emails will not be sent")
	}
	if cfg.SNSRegion != "" {
		snsCfg, err := dynamo.LoadAWSConfig(ctx, cfg, cfg.SNSRegion)
		if err != nil {
			return err
		}
		sender, err := sns.NewSender(snsCfg, cfg.AWSEndpointURL)
		if err != nil {
			return err
		}
		deps.SMSSender = sender
	} else {
		slog.Warn("SNS_REGION not set; OTP codes will not be sent by SMS")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "ledger", cfg.LedgerBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
