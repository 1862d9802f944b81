package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMissingEnv is returned when a required variable is not set.
var ErrMissingEnv = errors.New("required environment variable is not set")

const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config holds all process-wide settings.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	Gateway  GatewayConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AMQP     AMQPConfig
	S3       S3Config
	Telegram TelegramConfig

	CORSOrigin string
}

// GatewayConfig selects and configures the record gateway.
type GatewayConfig struct {
	Backend   string
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client converts the settings into the HTTP client config.
func (g GatewayConfig) Client() gateway.ClientConfig {
	return gateway.ClientConfig{
		BaseURL:   g.BaseURL,
		ProjectID: g.ProjectID,
		PublicKey: g.PublicKey,
		Timeout:   g.Timeout,
	}
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// Enabled reports whether change events should be published.
func (a AMQPConfig) Enabled() bool { return a.URL != "" }

type S3Config struct {
	Region    string
	Bucket    string
	PublicURL string
}

func (s S3Config) Enabled() bool { return s.Bucket != "" }

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != 0 }

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debug("no .env file loaded")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		Gateway: GatewayConfig{
			Backend:   strings.ToLower(getEnv("GATEWAY_BACKEND", BackendRemote)),
			BaseURL:   getEnv("GATEWAY_URL", gateway.DefaultBaseURL),
			ProjectID: os.Getenv("APPER_PROJECT_ID"),
			PublicKey: os.Getenv("APPER_PUBLIC_KEY"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:    getEnv("DB_DSN", "backoffice.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "change-me"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		AMQP: AMQPConfig{
			URL:      os.Getenv("AMQP_URL"),
			Exchange: getEnv("AMQP_EXCHANGE", "backoffice.changes"),
		},
		S3: S3Config{
			Region:    getEnv("S3_REGION", os.Getenv("AWS_REGION")),
			Bucket:    os.Getenv("S3_BUCKET"),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
	}

	if cfg.Gateway.ProjectID == "" {
		return nil, fmt.Errorf("%w: APPER_PROJECT_ID", ErrMissingEnv)
	}
	if cfg.Gateway.PublicKey == "" {
		return nil, fmt.Errorf("%w: APPER_PUBLIC_KEY", ErrMissingEnv)
	}
	if b := cfg.Gateway.Backend; b != BackendRemote && b != BackendLocal {
		return nil, fmt.Errorf("GATEWAY_BACKEND must be %q or %q, got %q", BackendRemote, BackendLocal, b)
	}

	var err error
	if cfg.Gateway.Timeout, err = getDuration("GATEWAY_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	return cfg, nil
}

// InitDB opens the staff database (and the local gateway tables) with the configured driver.
func InitDB(dbc DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbc.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(dbc.DSN)
	case "mysql":
		dialector = mysql.Open(dbc.DSN)
	case "postgres":
		dialector = postgres.Open(dbc.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", dbc.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	utils.InfoLogger.WithField("driver", dbc.Driver).Info("Database connected")
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
