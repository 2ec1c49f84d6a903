package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the whole runtime configuration, read from the environment
// (and an optional .env file loaded by the caller).
type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	Port     string `mapstructure:"PORT"`
	SiteURL  string `mapstructure:"SITE_URL"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Backend client. Both empty-or-set decides between the real client and the stub.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	Auth AuthRuntimeConfig `mapstructure:",squash"`

	RealtimeDriver string `mapstructure:"REALTIME_DRIVER"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`

	StripeSecretKey      string `mapstructure:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `mapstructure:"STRIPE_PUBLISHABLE_KEY"`
	Currency             string `mapstructure:"PAYMENT_CURRENCY"`

	StorageType      string `mapstructure:"STORAGE_TYPE"`
	StorageLocalPath string `mapstructure:"STORAGE_LOCAL_PATH"`
	StoragePublicURL string `mapstructure:"STORAGE_PUBLIC_URL"`
	S3Bucket         string `mapstructure:"S3_BUCKET"`
	S3Region         string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID   string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `mapstructure:"AWS_SECRET_ACCESS_KEY"`

	BookingStrictTransitions bool   `mapstructure:"BOOKING_STRICT_TRANSITIONS"`
	AuthRateLimitPerMinute   int    `mapstructure:"AUTH_RATE_LIMIT_PER_MIN"`
	CORSAllowedOrigins       string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	SupportEmail             string `mapstructure:"SUPPORT_EMAIL"`

	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

var defaults = map[string]any{
	"APP_ENV":   "dev",
	"PORT":      "8080",
	"SITE_URL":  "http://localhost:5173",
	"LOG_LEVEL": "",

	"DATABASE_URL": "",
	"JWT_SECRET":   "",

	"JWT_ACCESS_TTL":           defaultJWTAccessTTL,
	"REFRESH_TTL":              defaultRefreshTTL,
	"VERIFY_CODE_TTL":          defaultVerifyCodeTTL,
	"VERIFY_RESEND_COOLDOWN":   defaultVerifyResend,
	"VERIFY_MAX_ATTEMPTS":      defaultVerifyMaxAttempts,
	"REFRESH_TOKEN_PEPPER":     defaultRefreshTokenPepper,
	"VERIFICATION_CODE_PEPPER": defaultVerifyCodePepper,
	"COOKIE_SECURE":            false,
	"COOKIE_SAMESITE":          defaultCookieSameSite,
	"GOOGLE_CLIENT_ID":         "",
	"GOOGLE_CLIENT_SECRET":     "",
	"OAUTH_REDIRECT_URL":       "http://localhost:8080/api/v1/auth/callback/google",

	"REALTIME_DRIVER": "memory",
	"REDIS_ADDR":      "localhost:6379",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,

	"STRIPE_SECRET_KEY":      "",
	"STRIPE_PUBLISHABLE_KEY": "",
	"PAYMENT_CURRENCY":       "usd",

	"STORAGE_TYPE":          "local",
	"STORAGE_LOCAL_PATH":    "./uploads",
	"STORAGE_PUBLIC_URL":    "/static",
	"S3_BUCKET":             "",
	"AWS_REGION":            "us-east-1",
	"AWS_ACCESS_KEY_ID":     "",
	"AWS_SECRET_ACCESS_KEY": "",

	"BOOKING_STRICT_TRANSITIONS": false,
	"AUTH_RATE_LIMIT_PER_MIN":    30,
	"CORS_ALLOWED_ORIGINS":       "http://localhost:3000,http://localhost:5173",
	"SUPPORT_EMAIL":              "support@glowbook.app",

	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_INSECURE": false,
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.RealtimeDriver = strings.ToLower(strings.TrimSpace(cfg.RealtimeDriver))
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))

	if err := cfg.Auth.parse(); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BackendConfigured reports whether both backend values are present.
func (c *Config) BackendConfigured() bool {
	return c.DatabaseURL != "" && c.JWTSecret != ""
}

// IsProdLike reports whether the app runs in a production-like environment.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if err := validateAuth(&cfg.Auth, cfg.AppEnv, cfg.JWTSecret); err != nil {
		return err
	}

	switch cfg.RealtimeDriver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("REALTIME_DRIVER must be one of: memory, redis, postgres")
	}
	if cfg.RealtimeDriver == "postgres" && !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		return fmt.Errorf("REALTIME_DRIVER=postgres requires a postgres DATABASE_URL")
	}

	switch cfg.StorageType {
	case "local":
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when STORAGE_TYPE=s3")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of: local, s3")
	}

	if cfg.AuthRateLimitPerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_PER_MIN must be > 0")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
