package auth

import (
	"errors"
	"os"
	"time"
)

// Default token lifetimes; overridable via env in ConfigFromEnv.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultResetTTL   = time.Hour
)

// Config carries the signing key and token lifetimes. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// ConfigFromEnv reads JWT_SECRET (required) and the optional
// ACCESS_TOKEN_TTL / REFRESH_TOKEN_TTL / RESET_TOKEN_TTL durations.
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET not set")
	}

	cfg := Config{
		Secret:     []byte(secret),
		Issuer:     os.Getenv("AUTH_ISSUER"),
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
		ResetTTL:   DefaultResetTTL,
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		cfg.AccessTTL = d
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		cfg.RefreshTTL = d
	}
	if v := os.Getenv("RESET_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		cfg.ResetTTL = d
	}
	return cfg, nil
}
