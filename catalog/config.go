package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gnemet/dashgrid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration read from config.yaml
type Config struct {
	Application struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Author  string `yaml:"author"`
	} `yaml:"application"`
	Server struct {
		Port            string `yaml:"port"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Catalog struct {
		Path string `yaml:"path"`
		Lang string `yaml:"lang"`
	} `yaml:"catalog"`
	Locale   dashgrid.FormatOptions `yaml:"locale"`
	Sessions struct {
		MaxSessions int    `yaml:"max_sessions"`
		IdleTimeout string `yaml:"idle_timeout"`
		AbsTimeout  string `yaml:"abs_timeout"`
	} `yaml:"sessions"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Data struct {
		Seed     int64 `yaml:"seed"`
		Tasks    int   `yaml:"tasks"`
		Days     int   `yaml:"days"`
		Insights int   `yaml:"insights"`
	} `yaml:"data"`
}

// LoadConfig reads path after loading .env, expanding ${VAR} references.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load() // optional outside development

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// DefaultConfig is used when no config file is present
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Application.Name == "" {
		c.Application.Name = "dashgrid"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "internal/data/catalog/dashboard.yaml"
	}
	if c.Catalog.Lang == "" {
		c.Catalog.Lang = "en"
	}
	if c.Sessions.IdleTimeout == "" {
		c.Sessions.IdleTimeout = "30m"
	}
	if c.Sessions.AbsTimeout == "" {
		c.Sessions.AbsTimeout = "8h"
	}
}

// Durations parses the session timeouts and the shutdown timeout.
func (c *Config) Durations() (idle, abs, shutdown time.Duration, err error) {
	if idle, err = time.ParseDuration(c.Sessions.IdleTimeout); err != nil {
		return 0, 0, 0, fmt.Errorf("sessions.idle_timeout: %w", err)
	}
	if abs, err = time.ParseDuration(c.Sessions.AbsTimeout); err != nil {
		return 0, 0, 0, fmt.Errorf("sessions.abs_timeout: %w", err)
	}
	if shutdown, err = time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return 0, 0, 0, fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	return idle, abs, shutdown, nil
}

// Logger builds the slog logger described by the logging section.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
