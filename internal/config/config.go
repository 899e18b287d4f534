package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	TelegramBotToken string
	TelegramChatID   string
	TelegramRate     float64
	TelegramBurst    int

	Host        string
	Port        int
	HTTPRate    float64
	HTTPBurst   int
	NotifyJWT   string
	Environment string
	LogLevel    string

	BackendURL     string
	BackendTimeout time.Duration
	BackendSecret  string
	AdminURL       string

	ReminderInterval time.Duration
	Location         *time.Location
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backendURL := strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8080"), "/")
	cfg := &Config{
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		TelegramRate:     getEnvAsFloat("TELEGRAM_RATE_PER_SEC", 1),
		TelegramBurst:    getEnvAsInt("TELEGRAM_RATE_BURST", 5),
		Host:             getEnv("HOST", "127.0.0.1"),
		Port:             getEnvAsInt("PORT", 5000),
		HTTPRate:         getEnvAsFloat("HTTP_RATE_PER_SEC", 5),
		HTTPBurst:        getEnvAsInt("HTTP_RATE_BURST", 10),
		NotifyJWT:        getEnv("NOTIFY_JWT_SECRET", ""),
		Environment:      getEnv("ENVIRONMENT", "production"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		BackendURL:       backendURL,
		BackendTimeout:   getEnvAsDuration("BACKEND_TIMEOUT", 10*time.Second),
		BackendSecret:    getEnv("TELEGRAM_API_SECRET", ""),
		AdminURL:         adminURL(),
		ReminderInterval: getEnvAsDuration("REMINDER_CHECK_INTERVAL", 300*time.Second),
		Location:         time.Local,
	}

	if tz := getEnv("TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("config: TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramBotToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.TelegramChatID == "" {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_CHECK_INTERVAL must be positive"))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, errors.New("BACKEND_TIMEOUT must be positive"))
	}
	if c.TelegramRate <= 0 || c.HTTPRate <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the inbound HTTP surface.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// adminURL keeps an explicitly empty ADMIN_URL, which turns the admin link off.
// The backend serves its bot API on loopback, so no default is derived from BACKEND_URL.
func adminURL() string {
	value, _ := os.LookupEnv("ADMIN_URL")
	return strings.TrimSpace(value)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := getEnv(key, ""); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value := getEnv(key, ""); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("5m") and bare seconds ("300").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
