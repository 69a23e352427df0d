package config

import (
	"flag"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/doccheck/marketplace/internal/middlewares/logger"
	"go.uber.org/zap"
)

type Config struct {
	Address string `env:"RUN_ADDRESS"`

	DatabaseDNS string `env:"DATABASE_URI"`

	SessionSecret string `env:"SESSION_SECRET"`
	SecureCookies bool   `env:"SECURE_COOKIES"`
	AfterLoginURL string `env:"AFTER_LOGIN_URL"`

	OIDCIssuerURL    string `env:"OIDC_ISSUER_URL"`
	OIDCClientID     string `env:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `env:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `env:"OIDC_REDIRECT_URL"`

	S3Bucket           string `env:"S3_BUCKET"`
	S3Endpoint         string `env:"S3_ENDPOINT"`
	AWSRegion          string `env:"AWS_REGION"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	PricingFile string `env:"PRICING_FILE"`
	LogLevel    string `env:"LOG_LEVEL"`

	PaymentTimeout      time.Duration `env:"PAYMENT_TIMEOUT"`
	ExpirySweepInterval time.Duration `env:"EXPIRY_SWEEP_INTERVAL"`
}

func InitConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		logger.Log.Warn("Getting an error while parsing flags", zap.String("err", err.Error()))
	}
	return cfg
}

// Load reads flag defaults from args and overrides them with the environment.
func Load(args []string) (*Config, error) {
	flags := Flags{}
	err := flags.Init(flag.NewFlagSet("doccheck", flag.ContinueOnError), args)

	cfg := Config{
		Address:             flags.address,
		DatabaseDNS:         flags.dbDNS,
		PricingFile:         flags.pricingFile,
		LogLevel:            flags.logLevel,
		PaymentTimeout:      flags.paymentTimeout,
		ExpirySweepInterval: flags.expirySweepInterval,
	}
	cfg.parseEnv()

	return &cfg, err
}

// OIDCConfigured reports whether sign in through the identity provider is possible.
func (cfg *Config) OIDCConfigured() bool {
	return cfg.OIDCIssuerURL != "" && cfg.OIDCClientID != ""
}

func (cfg *Config) parseEnv() {
	err := env.Parse(cfg)
	if err != nil {
		logger.Log.Warn("Getting an error while parsing the configuration", zap.String("err", err.Error()))
	}
}
