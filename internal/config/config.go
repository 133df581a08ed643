package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment. Function secrets are optional here:
// a missing one only fails the handler that needs it.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`

	Database DatabaseConfig `ignored:"true"`

	BackendURL        string `envconfig:"BACKEND_URL"`
	BackendServiceKey string `envconfig:"BACKEND_SERVICE_ROLE_KEY"`
	BackendJWTSecret  string `envconfig:"BACKEND_JWT_SECRET"`

	MailTransport string     `envconfig:"MAIL_TRANSPORT" default:"resend"`
	ResendAPIKey  string     `envconfig:"RESEND_API_KEY"`
	ResendBaseURL string     `envconfig:"RESEND_BASE_URL" default:"https://api.resend.com"`
	FromAddress   string     `envconfig:"MAIL_FROM_ADDRESS" default:"noreply@jobseeker.app"`
	SMTP          SMTPConfig `ignored:"true"`

	TrackingBaseURL      string        `envconfig:"TRACKING_BASE_URL"`
	FallbackRedirectURL  string        `envconfig:"FALLBACK_REDIRECT_URL" default:"https://jobseeker.app"`
	TrackingWriteTimeout time.Duration `envconfig:"TRACKING_WRITE_TIMEOUT" default:"3s"`
	ClickDedupeWindow    time.Duration `envconfig:"CLICK_DEDUPE_WINDOW" default:"1m"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`

	AMQPURL string `envconfig:"AMQP_URL"`

	ScrapeConcurrency int           `envconfig:"SCRAPE_CONCURRENCY" default:"1"`
	ScrapeTimeout     time.Duration `envconfig:"SCRAPE_TIMEOUT" default:"150s"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"100"`
}

type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to process database config: %w", err)
	}
	if err := envconfig.Process("", &cfg.SMTP); err != nil {
		return nil, fmt.Errorf("failed to process smtp config: %w", err)
	}
	return &cfg, nil
}

// DSN prefers DATABASE_URL and falls back to the DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// FunctionsURL is the base URL of the backend's edge functions.
func (c *Config) FunctionsURL() string {
	if c.BackendURL == "" {
		return ""
	}
	return strings.TrimRight(c.BackendURL, "/") + "/functions/v1"
}

// TrackingURL is where beacons and click redirects point. Defaults to FunctionsURL.
func (c *Config) TrackingURL() string {
	if c.TrackingBaseURL != "" {
		return strings.TrimRight(c.TrackingBaseURL, "/")
	}
	return c.FunctionsURL()
}
