package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/resistconv/internal/convert"
	"github.com/dgallion1/resistconv/internal/parser"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Conversion input
	InputPath     string
	InputEncoding string

	// HTTP server
	BindAddress    string
	APIKey         string
	MaxUploadBytes int64

	// Stats
	StatsWindow time.Duration

	LogLevel string
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	InputPath      string `yaml:"input_path"`
	InputEncoding  string `yaml:"input_encoding"`
	BindAddress    string `yaml:"bind_address"`
	APIKey         string `yaml:"api_key"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	StatsWindow    string `yaml:"stats_window"`
	LogLevel       string `yaml:"log_level"`
}

const (
	defaultBindAddress    = "127.0.0.1:8080"
	defaultMaxUploadBytes = 10 << 20 // 10MB
	defaultStatsWindow    = time.Hour
)

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		InputPath:      convert.DefaultInput,
		InputEncoding:  "utf-8",
		BindAddress:    defaultBindAddress,
		MaxUploadBytes: defaultMaxUploadBytes,
		StatsWindow:    defaultStatsWindow,
		LogLevel:       "info",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// RESISTCONV_CONFIG (if any), then the environment.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("RESISTCONV_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.InputPath = envOr("RESISTCONV_INPUT", cfg.InputPath)
	cfg.InputEncoding = envOr("INPUT_ENCODING", cfg.InputEncoding)
	cfg.BindAddress = envOr("BIND_ADDRESS", cfg.BindAddress)
	cfg.APIKey = envOr("API_KEY", cfg.APIKey)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = defaultStatsWindow
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config yaml %s: %w", path, err)
	}

	if fc.InputPath != "" {
		c.InputPath = fc.InputPath
	}
	if fc.InputEncoding != "" {
		c.InputEncoding = fc.InputEncoding
	}
	if fc.BindAddress != "" {
		c.BindAddress = fc.BindAddress
	}
	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.MaxUploadBytes > 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.StatsWindow != "" {
		d, err := time.ParseDuration(fc.StatsWindow)
		if err != nil {
			return fmt.Errorf("parse config yaml %s: stats_window: %w", path, err)
		}
		c.StatsWindow = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("RESISTCONV_INPUT must not be empty")
	}
	if !parser.SupportedEncoding(c.InputEncoding) {
		return fmt.Errorf("INPUT_ENCODING %q is not a supported encoding", c.InputEncoding)
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// SlogLevel returns the configured log level, info if it is not recognised.
func (c Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
