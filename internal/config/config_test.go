package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "gymgpt"
  user: "gymgpt"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
planner:
  history_days: 21
  backfill: true
llm:
  model: "gpt-4.1"
  timeout: 30s
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GYMGPT_SERVER_HOST", "GYMGPT_SERVER_PORT", "GYMGPT_DB_HOST", "GYMGPT_DB_PORT",
		"GYMGPT_DB_NAME", "GYMGPT_DB_USER", "GYMGPT_DB_PASSWORD", "GYMGPT_DB_SSLMODE",
		"GYMGPT_AUTH_API_KEY", "GYMGPT_TAILSCALE_ENABLED", "GYMGPT_TAILSCALE_HOSTNAME",
		"GYMGPT_PLANNER_HISTORY_DAYS", "GYMGPT_PLANNER_CATALOG_PATH", "GYMGPT_PLANNER_BACKFILL",
		"OPENAI_API_KEY", "GYMGPT_LLM_API_KEY", "GYMGPT_LLM_MODEL", "GYMGPT_LLM_BASE_URL",
		"GYMGPT_LOG_LEVEL", "GYMGPT_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Name != "gymgpt" || cfg.Database.Port != 5432 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q", cfg.Auth.APIKey)
	}
	if cfg.Planner.HistoryWindow() != 21*24*time.Hour || !cfg.Planner.Backfill {
		t.Errorf("planner = %+v", cfg.Planner)
	}
	if cfg.LLM.Model != "gpt-4.1" || cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("llm = %+v", cfg.LLM)
	}
}

// TestLoadDefaults fills unset sections with defaults.
func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeTemp(t, `
database:
  host: db
  name: gymgpt
  user: gymgpt
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Database.Port != 5432 {
		t.Errorf("ports = %d/%d, want 8080/5432", cfg.Server.Port, cfg.Database.Port)
	}
	if cfg.Planner.HistoryDays != 14 || cfg.LLM.Model != "gpt-4.1-mini" || cfg.Log.Format != "text" {
		t.Errorf("defaults not applied: %+v %+v %+v", cfg.Planner, cfg.LLM, cfg.Log)
	}
	if cfg.Auth.APIKey != "" {
		t.Errorf("api key should be optional, got %q", cfg.Auth.APIKey)
	}
}

// TestEnvOverride verifies that GYMGPT_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("GYMGPT_SERVER_PORT", "9090")
	t.Setenv("GYMGPT_DB_HOST", "db.internal")
	t.Setenv("GYMGPT_AUTH_API_KEY", "env-key")
	t.Setenv("GYMGPT_PLANNER_HISTORY_DAYS", "7")
	t.Setenv("GYMGPT_TAILSCALE_ENABLED", "true")
	t.Setenv("GYMGPT_LOG_FORMAT", "json")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("database.host = %q", cfg.Database.Host)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q", cfg.Auth.APIKey)
	}
	if cfg.Planner.HistoryDays != 7 || !cfg.Tailscale.Enabled || cfg.Log.Format != "json" {
		t.Errorf("overrides not applied: %+v %+v %+v", cfg.Planner, cfg.Tailscale, cfg.Log)
	}
}

// TestOpenAIKeyFallback uses OPENAI_API_KEY only when no key is configured.
func TestOpenAIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("llm.api_key = %q, want OPENAI_API_KEY", cfg.LLM.APIKey)
	}

	cfg, err = Load(writeTemp(t, validYAML+"  api_key: sk-file\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-file" {
		t.Errorf("llm.api_key = %q, want file value", cfg.LLM.APIKey)
	}

	t.Setenv("GYMGPT_LLM_API_KEY", "sk-gymgpt")
	cfg, err = Load(writeTemp(t, validYAML+"  api_key: sk-file\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.APIKey != "sk-gymgpt" {
		t.Errorf("llm.api_key = %q, want GYMGPT_LLM_API_KEY", cfg.LLM.APIKey)
	}
}

// TestDSN verifies PostgreSQL connection string generation and the sslmode default.
func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "gymgpt", User: "u", Password: "p"}
	want := "postgres://u:p@localhost:5432/gymgpt?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	d.SSLMode = "require"
	if got := d.DSN(); !strings.HasSuffix(got, "sslmode=require") {
		t.Errorf("DSN() = %q, want sslmode=require", got)
	}
}

// TestValidationErrors verifies that missing or out-of-range fields are rejected.
func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"missing db host", [2]string{`host: "localhost"`, `host: ""`}, "database.host"},
		{"missing db name", [2]string{`name: "gymgpt"`, `name: ""`}, "database.name"},
		{"bad port", [2]string{"port: 8080", "port: 70000"}, "server.port"},
		{"history too long", [2]string{"history_days: 21", "history_days: 400"}, "planner.history_days"},
		{"bad log format", [2]string{"planner:", "log:\n  format: xml\nplanner:"}, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			yaml := strings.Replace(validYAML, tt.replace[0], tt.replace[1], 1)
			_, err := Load(writeTemp(t, yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestLoadMissingFile verifies that a missing config file returns an error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestLoadInvalidYAML verifies that malformed YAML returns an error.
func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeTemp(t, "{{{{invalid yaml")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
