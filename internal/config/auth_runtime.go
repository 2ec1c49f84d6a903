package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL       = "15m"
	defaultRefreshTTL         = "168h"
	defaultVerifyCodeTTL      = "10m"
	defaultVerifyResend       = "60s"
	defaultVerifyMaxAttempts  = 5
	defaultCookieSameSite     = "Lax"
	defaultRefreshTokenPepper = "change-me-refresh-pepper"
	defaultVerifyCodePepper   = "change-me-verification-pepper"
)

// AuthRuntimeConfig holds the auth subsystem settings. Durations arrive as
// strings and are parsed once in Load.
type AuthRuntimeConfig struct {
	RawAccessTTL    string `mapstructure:"JWT_ACCESS_TTL"`
	RawRefreshTTL   string `mapstructure:"REFRESH_TTL"`
	RawVerifyTTL    string `mapstructure:"VERIFY_CODE_TTL"`
	RawVerifyResend string `mapstructure:"VERIFY_RESEND_COOLDOWN"`

	VerifyMaxAttempts      int    `mapstructure:"VERIFY_MAX_ATTEMPTS"`
	RefreshTokenPepper     string `mapstructure:"REFRESH_TOKEN_PEPPER"`
	VerificationCodePepper string `mapstructure:"VERIFICATION_CODE_PEPPER"`
	CookieSecure           bool   `mapstructure:"COOKIE_SECURE"`
	CookieSameSite         string `mapstructure:"COOKIE_SAMESITE"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectURL   string `mapstructure:"OAUTH_REDIRECT_URL"`

	JWTAccessTTL         time.Duration `mapstructure:"-"`
	RefreshTTL           time.Duration `mapstructure:"-"`
	VerifyCodeTTL        time.Duration `mapstructure:"-"`
	VerifyResendCooldown time.Duration `mapstructure:"-"`
}

func (a *AuthRuntimeConfig) parse() error {
	var err error
	if a.JWTAccessTTL, err = parseDuration("JWT_ACCESS_TTL", a.RawAccessTTL); err != nil {
		return err
	}
	if a.RefreshTTL, err = parseDuration("REFRESH_TTL", a.RawRefreshTTL); err != nil {
		return err
	}
	if a.VerifyCodeTTL, err = parseDuration("VERIFY_CODE_TTL", a.RawVerifyTTL); err != nil {
		return err
	}
	if a.VerifyResendCooldown, err = parseDuration("VERIFY_RESEND_COOLDOWN", a.RawVerifyResend); err != nil {
		return err
	}
	a.RefreshTokenPepper = strings.TrimSpace(a.RefreshTokenPepper)
	a.VerificationCodePepper = strings.TrimSpace(a.VerificationCodePepper)
	a.CookieSameSite = strings.TrimSpace(a.CookieSameSite)
	return nil
}

// GoogleEnabled reports whether OAuth sign-in with Google is configured.
func (a *AuthRuntimeConfig) GoogleEnabled() bool {
	return a.GoogleClientID != "" && a.GoogleClientSecret != ""
}

func validateAuth(a *AuthRuntimeConfig, appEnv, jwtSecret string) error {
	if a.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if a.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if a.VerifyCodeTTL <= 0 {
		return fmt.Errorf("VERIFY_CODE_TTL must be > 0")
	}
	if a.VerifyResendCooldown <= 0 {
		return fmt.Errorf("VERIFY_RESEND_COOLDOWN must be > 0")
	}
	if a.VerifyMaxAttempts <= 0 {
		return fmt.Errorf("VERIFY_MAX_ATTEMPTS must be > 0")
	}
	sameSite := strings.ToLower(a.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !a.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if isProdLike(appEnv) {
		if jwtSecret == "" {
			return fmt.Errorf("in prod/release JWT_SECRET must be set")
		}
		if isEmptyOrDefault(a.RefreshTokenPepper, defaultRefreshTokenPepper) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_PEPPER must be set and not default")
		}
		if isEmptyOrDefault(a.VerificationCodePepper, defaultVerifyCodePepper) {
			return fmt.Errorf("in prod/release VERIFICATION_CODE_PEPPER must be set and not default")
		}
		if !a.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}
	return nil
}

func parseDuration(name, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}
