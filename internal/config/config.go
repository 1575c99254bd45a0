// Package config resolves zencalc settings from defaults, an optional YAML
// file and ZENCALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zencalc/internal/assistant"
	"zencalc/internal/history"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ZENCALC_SERVER_ADDR.
const EnvPrefix = "ZENCALC"

// Config is the fully resolved configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	History   HistoryConfig   `mapstructure:"history"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type HistoryConfig struct {
	Path       string `mapstructure:"path"` // empty keeps history in memory only
	MaxEntries int    `mapstructure:"max_entries"`
}

type AssistantConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Temperature     float32       `mapstructure:"temperature"`
	TopP            float32       `mapstructure:"top_p"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"` // idle transcripts are pruned after this
}

// Options converts the assistant section into solver options.
func (a AssistantConfig) Options() assistant.Options {
	return assistant.Options{
		Model:       a.Model,
		Temperature: a.Temperature,
		TopP:        a.TopP,
		Timeout:     a.Timeout,
	}
}

// DefaultHistoryPath returns ~/.config/zencalc/history.json, or "" when the
// home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "zencalc", "history.json")
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "zencalc")
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.max_entries", history.MaxEntries)
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", assistant.DefaultModel)
	v.SetDefault("assistant.temperature", 0.1)
	v.SetDefault("assistant.top_p", 0.95)
	v.SetDefault("assistant.timeout", time.Duration(0))
	v.SetDefault("assistant.conversation_ttl", 30*time.Minute)
}

// New returns a viper instance with defaults, env binding and, when path is
// set, that config file. Without a path it looks for zencalc.yaml in the
// working directory and ~/.config/zencalc.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("zencalc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "zencalc"))
		}
	}

	return v
}

// Load reads the config file (if any) and returns the validated Config.
// A missing file is only an error when path was given explicitly.
func Load(path string) (Config, error) {
	return Decode(New(path))
}

// Decode reads v's config file, if configured, and unmarshals it.
func Decode(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Assistant.APIKey == "" {
		cfg.Assistant.APIKey = apiKeyFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// apiKeyFromEnv falls back to the variables the Gemini tooling uses.
func apiKeyFromEnv() string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

// Validate checks ranges. History size outside 1..50 is clamped, not rejected.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative, got %s", c.Server.ShutdownTimeout)
	}
	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 2 {
		return fmt.Errorf("assistant.temperature must be within 0..2, got %g", c.Assistant.Temperature)
	}
	if c.Assistant.TopP < 0 || c.Assistant.TopP > 1 {
		return fmt.Errorf("assistant.top_p must be within 0..1, got %g", c.Assistant.TopP)
	}
	if c.Assistant.Timeout < 0 {
		return fmt.Errorf("assistant.timeout must not be negative, got %s", c.Assistant.Timeout)
	}
	if c.History.MaxEntries <= 0 || c.History.MaxEntries > history.MaxEntries {
		c.History.MaxEntries = history.MaxEntries
	}
	return nil
}
