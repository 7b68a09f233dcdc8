// Package config holds the immutable process configuration. Everything the
// pipeline and transports need (source URL, evening threshold, delays,
// credentials) is loaded here once from the environment instead of living as
// mutable package-level state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/feudal/teatru-bot/internal/dates"
	"github.com/joho/godotenv"
)

type Config struct {
	// TelegramToken authenticates the bot against the Bot API. Required for
	// the bot command, unused by the one-shot CLI.
	TelegramToken string

	// ListenAddr is the liveness endpoint address.
	ListenAddr string

	// SourceBaseURL is the origin of the listings site; Origin is prefixed to
	// relative event links when formatting entries. They are usually the same
	// host but split so tests can scrape an httptest server while still
	// emitting real links.
	SourceBaseURL string
	Origin        string

	// CategoryMarker is the link-path substring identifying performance
	// listings; events without it are never reported.
	CategoryMarker string

	// EveningStart is the inclusive time-of-day threshold for the
	// all-week-evenings window.
	EveningStart dates.Clock

	// MessageDelay is the enforced pause between consecutive chat messages.
	MessageDelay time.Duration

	FetchTimeout time.Duration
	CacheTTL     time.Duration

	// RefreshCron schedules the cache-warming scrape (standard 5-field spec).
	RefreshCron string

	// Timezone is the location "today" is evaluated in when windows are
	// computed from the wall clock.
	Timezone *time.Location

	// UseBrowser switches the scraper to the headless-browser fetch path.
	UseBrowser bool

	LogLevel string
}

func Defaults() Config {
	return Config{
		ListenAddr:     ":3333",
		SourceBaseURL:  "https://www.fest.md",
		Origin:         "https://www.fest.md",
		CategoryMarker: "performances",
		EveningStart:   dates.Clock{Hour: 18},
		MessageDelay:   200 * time.Millisecond,
		FetchTimeout:   15 * time.Second,
		CacheTTL:       5 * time.Minute,
		RefreshCron:    "*/15 * * * *",
		Timezone:       time.Local,
		LogLevel:       "info",
	}
}

// Load reads configuration from the environment on top of Defaults. A .env
// file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.TelegramToken = os.Getenv("TELEGRAM_API_KEY")

	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.ListenAddr = ":" + v
	}
	if v := os.Getenv("TEATRU_SOURCE_BASE_URL"); v != "" {
		cfg.SourceBaseURL = v
	}
	if v := os.Getenv("TEATRU_ORIGIN"); v != "" {
		cfg.Origin = v
	}
	if v := os.Getenv("TEATRU_CATEGORY_MARKER"); v != "" {
		cfg.CategoryMarker = v
	}
	if v := os.Getenv("TEATRU_EVENING_START"); v != "" {
		clock, err := dates.ParseClock(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TEATRU_EVENING_START: %w", err)
		}
		cfg.EveningStart = clock
	}
	var err error
	if cfg.MessageDelay, err = durationEnv("TEATRU_MESSAGE_DELAY", cfg.MessageDelay); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = durationEnv("TEATRU_FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = durationEnv("TEATRU_CACHE_TTL", cfg.CacheTTL); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("TEATRU_REFRESH_CRON"); v != "" {
		cfg.RefreshCron = v
	}
	if v := os.Getenv("TEATRU_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TEATRU_TZ %q: %w", v, err)
		}
		cfg.Timezone = loc
	}
	if v := os.Getenv("TEATRU_USE_BROWSER"); v != "" {
		cfg.UseBrowser, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TEATRU_USE_BROWSER %q: %w", v, err)
		}
	}
	if v := os.Getenv("TEATRU_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
