package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	// MultiSelectLegacy stores list fields the way the intake form always
	// has: bracketed and comma separated, e.g. "[Drug, Device]".
	MultiSelectLegacy = "legacy"
	// MultiSelectJoined stores list fields as a plain ", " join.
	MultiSelectJoined = "joined"
)

type Config struct {
	// Server
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	BasePath   string `env:"BASE_PATH" envDefault:""`

	// Logging
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
	DBLogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	// Database
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"` // "postgres" or "sqlite"
	DatabaseURL  string `env:"DATABASE_URL" envDefault:"startrack.db"`

	// JWT
	JWTSecret     string `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTExpiration int    `env:"JWT_EXPIRATION" envDefault:"72"` // hours
	RequireAuth   bool   `env:"REQUIRE_AUTH" envDefault:"false"`

	// Users
	ResetPasswordDefault string `env:"RESET_PASSWORD_DEFAULT" envDefault:"123456"`
	AdminEmail           string `env:"ADMIN_EMAIL" envDefault:"admin@startrack.local"`
	AdminPassword        string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	// Projects
	MultiSelectFormat string `env:"MULTI_SELECT_FORMAT" envDefault:"legacy"`

	// Rate limiting, 0 disables
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// OAuth2 social login, a provider is enabled when its client id is set
	OAuth2RedirectURI    string `env:"OAUTH2_REDIRECT_URI" envDefault:"http://localhost:3000/oauth2/redirect"`
	GoogleClientID       string `env:"GOOGLE_CLIENT_ID" envDefault:""`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET" envDefault:""`
	GithubClientID       string `env:"GITHUB_CLIENT_ID" envDefault:""`
	GithubClientSecret   string `env:"GITHUB_CLIENT_SECRET" envDefault:""`
	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID" envDefault:""`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET" envDefault:""`
	LinkedinClientID     string `env:"LINKEDIN_CLIENT_ID" envDefault:""`
	LinkedinClientSecret string `env:"LINKEDIN_CLIENT_SECRET" envDefault:""`

	// Email
	SMTPHost     string `env:"SMTP_HOST" envDefault:""`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER" envDefault:""`
	SMTPPassword string `env:"SMTP_PASSWORD" envDefault:""`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"noreply@startrack.local"`

	// App
	AppURL  string `env:"APP_URL" envDefault:"http://localhost:8080"`
	AppName string `env:"APP_NAME" envDefault:"StarTrack"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DatabaseType {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_TYPE %q", c.DatabaseType)
	}
	switch c.MultiSelectFormat {
	case MultiSelectLegacy, MultiSelectJoined:
	default:
		return fmt.Errorf("unsupported MULTI_SELECT_FORMAT %q", c.MultiSelectFormat)
	}
	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive, got %d", c.JWTExpiration)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
