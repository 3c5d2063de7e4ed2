// Package config loads the gymgpt server configuration from YAML with
// GYMGPT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Planner   PlannerConfig   `yaml:"planner"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// AuthConfig holds the optional write-endpoint API key. Empty leaves the API
// open, which is only sensible behind tsnet or on localhost.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// PlannerConfig tunes history lookup and the exercise catalog.
type PlannerConfig struct {
	HistoryDays int    `yaml:"history_days"`
	CatalogPath string `yaml:"catalog_path"`
	Backfill    bool   `yaml:"backfill"`
}

// LLMConfig configures the optional language-model coach. Without an API key
// the model endpoints answer 503.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// HistoryWindow is the planner history window as a duration.
func (p PlannerConfig) HistoryWindow() time.Duration {
	return time.Duration(p.HistoryDays) * 24 * time.Hour
}

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database:  DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Tailscale: TailscaleConfig{Hostname: "gymgpt"},
		Planner:   PlannerConfig{HistoryDays: 14},
		LLM:       LLMConfig{Model: "gpt-4.1-mini", Timeout: 60 * time.Second},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix GYMGPT_ and underscore-separated paths:
//
//	GYMGPT_SERVER_HOST, GYMGPT_SERVER_PORT,
//	GYMGPT_DB_HOST, GYMGPT_DB_PORT, GYMGPT_DB_NAME,
//	GYMGPT_DB_USER, GYMGPT_DB_PASSWORD, GYMGPT_DB_SSLMODE,
//	GYMGPT_AUTH_API_KEY, GYMGPT_TAILSCALE_ENABLED,
//	GYMGPT_PLANNER_HISTORY_DAYS, GYMGPT_PLANNER_CATALOG_PATH,
//	GYMGPT_LLM_API_KEY (falls back to OPENAI_API_KEY), GYMGPT_LLM_MODEL,
//	GYMGPT_LLM_BASE_URL, GYMGPT_LOG_LEVEL, GYMGPT_LOG_FORMAT
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("GYMGPT_SERVER_HOST", &cfg.Server.Host)
	setInt("GYMGPT_SERVER_PORT", &cfg.Server.Port)
	setString("GYMGPT_DB_HOST", &cfg.Database.Host)
	setInt("GYMGPT_DB_PORT", &cfg.Database.Port)
	setString("GYMGPT_DB_NAME", &cfg.Database.Name)
	setString("GYMGPT_DB_USER", &cfg.Database.User)
	setString("GYMGPT_DB_PASSWORD", &cfg.Database.Password)
	setString("GYMGPT_DB_SSLMODE", &cfg.Database.SSLMode)
	setString("GYMGPT_AUTH_API_KEY", &cfg.Auth.APIKey)
	setBool("GYMGPT_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	setString("GYMGPT_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	setInt("GYMGPT_PLANNER_HISTORY_DAYS", &cfg.Planner.HistoryDays)
	setString("GYMGPT_PLANNER_CATALOG_PATH", &cfg.Planner.CatalogPath)
	setBool("GYMGPT_PLANNER_BACKFILL", &cfg.Planner.Backfill)
	if cfg.LLM.APIKey == "" {
		setString("OPENAI_API_KEY", &cfg.LLM.APIKey)
	}
	setString("GYMGPT_LLM_API_KEY", &cfg.LLM.APIKey)
	setString("GYMGPT_LLM_MODEL", &cfg.LLM.Model)
	setString("GYMGPT_LLM_BASE_URL", &cfg.LLM.BaseURL)
	setString("GYMGPT_LOG_LEVEL", &cfg.Log.Level)
	setString("GYMGPT_LOG_FORMAT", &cfg.Log.Format)
}

func (c *Config) validate() error {
	if !c.Tailscale.Enabled && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Planner.HistoryDays < 1 || c.Planner.HistoryDays > 365 {
		return fmt.Errorf("planner.history_days must be between 1 and 365")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}
