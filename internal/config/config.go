package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	SMTP         SMTPConfig
	Invitation   InvitationConfig
	Notification NotificationConfig
	Driver       DriverConfig
	Metrics      MetricsConfig
	Storage      StorageConfig
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"haulpoint"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns    int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string `env:"JWT_SECRET_KEY"`
	RefreshExpiration string `env:"JWT_REFRESH_EXPIRATION_TIME" envDefault:"168h"`
	AccessExpiration  string `env:"JWT_ACCESS_EXPIRATION_TIME" envDefault:"1h"`
	CustomerSession   string `env:"JWT_CUSTOMER_SESSION_TIME" envDefault:"12h"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port                  int      `env:"APP_PORT" envDefault:"8080"`
	Env                   string   `env:"APP_ENV" envDefault:"development"`
	LogLevel              string   `env:"LOG_LEVEL" envDefault:"info"`
	Debug                 bool     `env:"APP_DEBUG" envDefault:"false"`
	BaseURL               string   `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	FrontendURL           string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins        []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	CustomerDashboardPath string   `env:"CUSTOMER_DASHBOARD_PATH" envDefault:"/customer/dashboard"`
	CustomerLoginPath     string   `env:"CUSTOMER_LOGIN_PATH" envDefault:"/customer/login"`
	SecureCookies         bool     `env:"SECURE_COOKIES" envDefault:"false"`
}

type OAuth2GoogleConfig struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL"`
	Scopes       []string `env:"SCOPES" envSeparator:","`
}

// SMTPConfig holds outbound mail settings. An empty Host disables sending.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@haulpoint.local"`
	FromName string `env:"SMTP_FROM_NAME" envDefault:"Haulpoint"`

	// Workers and QueueSize bound the outbox that delivers mail in the background.
	Workers   int `env:"SMTP_WORKERS" envDefault:"2"`
	QueueSize int `env:"SMTP_QUEUE_SIZE" envDefault:"200"`
}

// InvitationConfig holds the customer invitation lifecycle knobs
type InvitationConfig struct {
	ExpiryDays         int           `env:"INVITATION_EXPIRY_DAYS" envDefault:"7"`
	ResendWindowDays   int           `env:"INVITATION_RESEND_WINDOW_DAYS" envDefault:"7"`
	BulkMax            int           `env:"INVITATION_BULK_MAX" envDefault:"50"`
	MaxExtendDays      int           `env:"INVITATION_MAX_EXTEND_DAYS" envDefault:"30"`
	ExpiringSoonDays   int           `env:"INVITATION_EXPIRING_SOON_DAYS" envDefault:"3"`
	AcceptMaxAttempts  int           `env:"INVITATION_ACCEPT_MAX_ATTEMPTS" envDefault:"5"`
	AcceptWindow       time.Duration `env:"INVITATION_ACCEPT_WINDOW" envDefault:"15m"`
	CleanupEnabled     bool          `env:"INVITATION_CLEANUP_ENABLED" envDefault:"true"`
	CleanupInterval    time.Duration `env:"INVITATION_CLEANUP_INTERVAL" envDefault:"1h"`
	AcceptPathTemplate string        `env:"INVITATION_ACCEPT_PATH" envDefault:"/accept-invite/%s"`

	// failed attempts on one token across every client address
	AcceptTokenMaxAttempts int `env:"INVITATION_ACCEPT_TOKEN_MAX_ATTEMPTS" envDefault:"20"`
}

type NotificationConfig struct {
	WorkerCount   int           `env:"NOTIFICATION_WORKERS" envDefault:"2"`
	BatchSize     int           `env:"NOTIFICATION_BATCH_SIZE" envDefault:"100"`
	FlushInterval time.Duration `env:"NOTIFICATION_FLUSH_INTERVAL" envDefault:"5s"`
	QueueSize     int           `env:"NOTIFICATION_QUEUE_SIZE" envDefault:"1000"`
}

// DriverConfig holds mobile app token settings. A zero TokenTTL issues
// tokens that never expire.
type DriverConfig struct {
	TokenTTL         time.Duration `env:"DRIVER_TOKEN_TTL" envDefault:"720h"`
	LoginMaxAttempts int           `env:"DRIVER_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"DRIVER_LOGIN_WINDOW" envDefault:"1m"`
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// StorageConfig points at the local upload directory served under URLPrefix.
type StorageConfig struct {
	Path      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	for name, value := range map[string]string{
		"JWT_ACCESS_EXPIRATION_TIME":  c.JWT.AccessExpiration,
		"JWT_REFRESH_EXPIRATION_TIME": c.JWT.RefreshExpiration,
		"JWT_CUSTOMER_SESSION_TIME":   c.JWT.CustomerSession,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s is not a valid duration: %w", name, err)
		}
	}
	if c.Invitation.ExpiryDays < 1 {
		return fmt.Errorf("INVITATION_EXPIRY_DAYS must be at least 1")
	}
	if c.Invitation.BulkMax < 1 {
		return fmt.Errorf("INVITATION_BULK_MAX must be at least 1")
	}
	if c.Invitation.AcceptMaxAttempts < 1 {
		return fmt.Errorf("INVITATION_ACCEPT_MAX_ATTEMPTS must be at least 1")
	}
	if c.Invitation.AcceptTokenMaxAttempts < c.Invitation.AcceptMaxAttempts {
		return fmt.Errorf("INVITATION_ACCEPT_TOKEN_MAX_ATTEMPTS must be at least INVITATION_ACCEPT_MAX_ATTEMPTS")
	}
	if c.Driver.TokenTTL < 0 {
		return fmt.Errorf("DRIVER_TOKEN_TTL must not be negative")
	}
	// Google sign-in is optional for staff, but a partial setup is a mistake
	if c.OAuth2Google.ClientID != "" {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("CLIENT_SECRET is required when CLIENT_ID is set")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
		}
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required when CLIENT_ID is set")
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// InvitationURL builds the public acceptance URL for a token
func (c *Config) InvitationURL(token string) string {
	return c.App.BaseURL + fmt.Sprintf(c.Invitation.AcceptPathTemplate, token)
}

// UploadURL is the public base URL of uploaded files.
func (c *Config) UploadURL() string {
	return c.App.BaseURL + c.Storage.URLPrefix
}

// SlogLevel maps LOG_LEVEL onto slog levels
func (c *Config) SlogLevel() slog.Level {
	switch c.App.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
