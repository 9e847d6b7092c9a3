package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	SourceURL       string
	SinkURL         string
	SinkSecret      string
	Port            string
	HTTPTimeout     time.Duration
	LogLevel        slog.Level
	RefreshSchedule string
	NotifySchedule  string
}

// Load reads configuration from the environment, an optional .env file in
// the working directory and, when file is not empty, a config file whose
// keys mirror the env names in lower case (port, source_url, ...).
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("log_level", "info")
	v.SetDefault("refresh_schedule", "0 */15 * * * *")
	v.SetDefault("notify_schedule", "0 * * * * *")
	for _, k := range []string{"source_url", "sink_url", "sink_secret"} {
		v.SetDefault(k, "")
	}
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	to := time.Duration(v.GetInt("http_timeout_seconds")) * time.Second
	if to <= 0 {
		to = 15 * time.Second
	}
	return Config{
		SourceURL:       v.GetString("source_url"),
		SinkURL:         v.GetString("sink_url"),
		SinkSecret:      v.GetString("sink_secret"),
		Port:            v.GetString("port"),
		HTTPTimeout:     to,
		LogLevel:        ParseLevel(v.GetString("log_level")),
		RefreshSchedule: v.GetString("refresh_schedule"),
		NotifySchedule:  v.GetString("notify_schedule"),
	}, nil
}

// ParseLevel maps a level name to slog, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
