package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"zencalc/internal/assistant"
	"zencalc/internal/history"

	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's environment and config files out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY", "ZENCALC_ASSISTANT_API_KEY"} {
		t.Setenv(name, "")
	}
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	require.Equal(t, "info", cfg.Log.Level)
	require.False(t, cfg.Telemetry.Enabled)
	require.Equal(t, "zencalc", cfg.Telemetry.ServiceName)
	require.Equal(t, filepath.Join(home, ".config", "zencalc", "history.json"), cfg.History.Path)
	require.Equal(t, history.MaxEntries, cfg.History.MaxEntries)
	require.Equal(t, assistant.DefaultModel, cfg.Assistant.Model)
	require.InDelta(t, 0.1, cfg.Assistant.Temperature, 1e-6)
	require.InDelta(t, 0.95, cfg.Assistant.TopP, 1e-6)
	require.Zero(t, cfg.Assistant.Timeout)
	require.Equal(t, 30*time.Minute, cfg.Assistant.ConversationTTL)
	require.Empty(t, cfg.Assistant.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")

	content := `server:
  addr: "127.0.0.1:9999"
  shutdown_timeout: 2s
log:
  level: debug
history:
  path: ""
  max_entries: 10
assistant:
  model: gemini-test
  temperature: 0.5
  timeout: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	require.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Empty(t, cfg.History.Path)
	require.Equal(t, 10, cfg.History.MaxEntries)
	require.Equal(t, "gemini-test", cfg.Assistant.Model)
	require.InDelta(t, 0.5, cfg.Assistant.Temperature, 1e-6)
	require.Equal(t, 30*time.Second, cfg.Assistant.Timeout)
}

func TestLoadFindsFileInWorkingDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zencalc.yaml"), []byte("log:\n  level: warn\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "zencalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0o600))

	t.Setenv("ZENCALC_SERVER_ADDR", ":7100")
	t.Setenv("ZENCALC_TELEMETRY_ENABLED", "true")
	t.Setenv("ZENCALC_ASSISTANT_TIMEOUT", "1m")
	t.Setenv("ZENCALC_ASSISTANT_CONVERSATION_TTL", "2h")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.Server.Addr)
	require.True(t, cfg.Telemetry.Enabled)
	require.Equal(t, time.Minute, cfg.Assistant.Timeout)
	require.Equal(t, 2*time.Hour, cfg.Assistant.ConversationTTL)
}

func TestLoadAPIKeyFallbacks(t *testing.T) {
	isolate(t)
	t.Setenv("API_KEY", "from-api-key")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-api-key", cfg.Assistant.APIKey)

	t.Setenv("GEMINI_API_KEY", "from-gemini")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "from-gemini", cfg.Assistant.APIKey)

	t.Setenv("ZENCALC_ASSISTANT_API_KEY", "explicit")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "explicit", cfg.Assistant.APIKey)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Addr: ":8080", ShutdownTimeout: time.Second},
			History:   HistoryConfig{MaxEntries: 20},
			Assistant: AssistantConfig{Temperature: 0.1, TopP: 0.95},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }},
		{name: "negative shutdown", mutate: func(c *Config) { c.Server.ShutdownTimeout = -time.Second }},
		{name: "temperature too high", mutate: func(c *Config) { c.Assistant.Temperature = 3 }},
		{name: "top_p above one", mutate: func(c *Config) { c.Assistant.TopP = 1.5 }},
		{name: "negative timeout", mutate: func(c *Config) { c.Assistant.Timeout = -time.Second }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 20, cfg.History.MaxEntries)

	cfg.History.MaxEntries = 500
	require.NoError(t, cfg.Validate())
	require.Equal(t, history.MaxEntries, cfg.History.MaxEntries)
}

func TestAssistantOptions(t *testing.T) {
	opts := AssistantConfig{Model: "m", Temperature: 0.2, TopP: 0.9, Timeout: time.Second}.Options()
	require.Equal(t, assistant.Options{Model: "m", Temperature: 0.2, TopP: 0.9, Timeout: time.Second}, opts)
}
