package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/doccheck/marketplace/internal/clients/oidc"
	"github.com/doccheck/marketplace/internal/config"
	"github.com/doccheck/marketplace/internal/config/db"
	"github.com/doccheck/marketplace/internal/handlers"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"github.com/doccheck/marketplace/internal/migrations"
	"github.com/doccheck/marketplace/internal/pricing"
	"github.com/doccheck/marketplace/internal/repository"
	"github.com/doccheck/marketplace/internal/service"
	"github.com/doccheck/marketplace/internal/storage"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

func main() {
	conf := config.InitConfig()

	err := initLogger(conf.LogLevel)
	if err != nil {
		logger.Log.Warn(err.Error())
	}

	if err := run(conf); err != nil {
		logger.Log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(conf *config.Config) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Up(conf.DatabaseDNS); err != nil {
		return err
	}

	dbObj, err := db.NewDB(rootCtx, conf.DatabaseDNS)
	if err != nil {
		return err
	}
	defer dbObj.Close()

	table, err := pricing.LoadTable(conf.PricingFile)
	if err != nil {
		return err
	}

	deps := service.Dependencies{
		Calculator:     pricing.NewCalculator(table),
		Storage:        initStorage(rootCtx, conf),
		PaymentTimeout: conf.PaymentTimeout,
	}
	if identity := initIdentity(rootCtx, conf); identity != nil {
		deps.Identity = identity
	}

	secret := conf.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Log.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	// Конфигурация сессии
	jwtConfig := &handlers.JWTConfig{
		SecretKey:      secret,
		AccessTokenTTL: 7 * 24 * time.Hour, // 7 дней
		SecureCookies:  conf.SecureCookies,
		AfterLoginURL:  conf.AfterLoginURL,
	}

	serverService := service.NewServerService(rootCtx, conf.Address, dbObj)
	serverService.SetRouter(jwtConfig, deps)

	notifications := service.NewNotificationService(repository.NewNotificationRepository(dbObj))
	expiry := service.NewExpiryService(repository.NewOrderRepository(dbObj), notifications)
	go expiry.Run(rootCtx, conf.ExpirySweepInterval)

	serverErr := make(chan error, 1)
	logger.Log.Info("Running Server on", zap.String("address", conf.Address))
	go serverService.RunServer(&serverErr)

	// Ждем сигнал завершения или ошибку сервера
	select {
	case <-rootCtx.Done():
		logger.Log.Info("Received shutdown signal, shutting down.")
	case err = <-serverErr:
		if err != nil {
			logger.Log.Error("Server error", zap.Error(err))
		}
	}

	if shutdownErr := serverService.Shutdown(); shutdownErr != nil {
		logger.Log.Error("Server shutdown error", zap.Error(shutdownErr))
	}

	return err
}

func initStorage(ctx context.Context, conf *config.Config) storage.ObjectStorageI {
	if conf.S3Bucket == "" {
		logger.Log.Warn("S3_BUCKET is not set, files are kept in memory")
		return storage.NewMemoryStorage()
	}

	s3Storage, err := storage.NewS3Storage(ctx, storage.Config{
		Bucket:          conf.S3Bucket,
		Region:          conf.AWSRegion,
		Endpoint:        conf.S3Endpoint,
		AccessKeyID:     conf.AWSAccessKeyID,
		SecretAccessKey: conf.AWSSecretAccessKey,
	})
	if err != nil {
		logger.Log.Warn("S3 storage is unavailable, files are kept in memory", zap.Error(err))
		return storage.NewMemoryStorage()
	}
	return s3Storage
}

func initIdentity(ctx context.Context, conf *config.Config) *oidc.Client {
	if !conf.OIDCConfigured() {
		logger.Log.Warn("OIDC is not configured, sign in is disabled")
		return nil
	}

	client, err := oidc.NewClient(ctx, oidc.Config{
		IssuerURL:    conf.OIDCIssuerURL,
		ClientID:     conf.OIDCClientID,
		ClientSecret: conf.OIDCClientSecret,
		RedirectURL:  conf.OIDCRedirectURL,
	})
	if err != nil {
		logger.Log.Warn("OIDC provider is unavailable, sign in is disabled", zap.Error(err))
		return nil
	}
	return client
}

func initLogger(level string) error {
	if err := logger.Initialize(level); err != nil {
		return err
	}
	return nil
}
