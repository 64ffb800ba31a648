package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds all runtime configuration. Every field has a safe
// non-production default so the app runs in local dev and CI without
// any secrets present.
type Config struct {
	Addr   string `env:"WELLNESS_ADDR,default=:8080"`
	Env    string `env:"WELLNESS_ENV,default=development"`
	DBPath string `env:"WELLNESS_DB,default=wellness.db"`

	// Session token signing
	JWTSecret    string        `env:"WELLNESS_JWT_SECRET,default=dev_jwt_secret"`
	JWTAlgorithm string        `env:"WELLNESS_JWT_ALGORITHM,default=HS256"`
	TokenTTL     time.Duration `env:"WELLNESS_TOKEN_TTL,default=8h"`

	// Browser cookie jar
	CookieSecret  string `env:"WELLNESS_COOKIE_SECRET,default=dev_cookie_secret"`
	CookieName    string `env:"WELLNESS_COOKIE_NAME,default=dev_cookie"`
	CookieExpDays int    `env:"WELLNESS_COOKIE_EXP_DAYS,default=1"`
	CookieDomain  string `env:"WELLNESS_COOKIE_DOMAIN,default=localhost"`

	// The permission token that must appear in a user's permission list.
	AppName string `env:"WELLNESS_APP_NAME,default=Wellness"`

	AdminEmail    string `env:"WELLNESS_ADMIN_EMAIL,default=admin@test.com"`
	AdminPassword string `env:"WELLNESS_ADMIN_PASSWORD,default=wellness admin"`
}

// Load reads configuration from the environment.
// POST: Returns a fully-populated Config or an error
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// IsProduction returns true when running with the production environment flag.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
