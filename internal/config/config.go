package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL       = "http://localhost:5000/api"
	defaultDatabaseURL  = "pomovity.db"
	defaultHTTPTimeout  = 15 * time.Second
	defaultWorkMinutes  = 25
	defaultBreakMinutes = 5
)

// Config keeps runtime settings for the client.
type Config struct {
	APIURL         string
	DatabaseURL    string
	HTTPTimeout    time.Duration
	WorkDuration   time.Duration
	BreakDuration  time.Duration
	TelegramToken  string
	TelegramChatID int64
	ReportInterval time.Duration
	ReportTime     string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		APIURL:         env("POMOVITY_API_URL"),
		DatabaseURL:    env("DATABASE_URL"),
		TelegramToken:  env("TELEGRAM_TOKEN"),
		ReportInterval: parseInterval(env("REPORT_INTERVAL_HOURS")),
		ReportTime:     env("REPORT_TIME"),
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 5 * time.Hour
	}

	cfg.HTTPTimeout = defaultHTTPTimeout
	if raw := env("POMOVITY_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("POMOVITY_HTTP_TIMEOUT: invalid duration %q", raw)
		}
		cfg.HTTPTimeout = d
	}

	work, err := parseMinutes("POMOVITY_WORK_MINUTES", env("POMOVITY_WORK_MINUTES"), defaultWorkMinutes)
	if err != nil {
		return cfg, err
	}
	brk, err := parseMinutes("POMOVITY_BREAK_MINUTES", env("POMOVITY_BREAK_MINUTES"), defaultBreakMinutes)
	if err != nil {
		return cfg, err
	}
	cfg.WorkDuration = work
	cfg.BreakDuration = brk

	if raw := env("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	return cfg, nil
}

// Telegram reports whether the Telegram front end is configured.
func (c Config) Telegram() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// RequireTelegram fails when the bot settings are missing.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	return nil
}

func parseMinutes(name, raw string, fallback int) (time.Duration, error) {
	if raw == "" {
		return time.Duration(fallback) * time.Minute, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: expected a positive number of minutes, got %q", name, raw)
	}
	return time.Duration(n) * time.Minute, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
