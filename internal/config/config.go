// Package config defines the arena configuration, loaded through viper from
// a YAML config file and ARENA_* environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Protocols supported by generation backends.
const (
	// ProtocolChat sends role/content message turns (OpenAI-compatible).
	ProtocolChat = "chat"
	// ProtocolPrompt sends a single combined text prompt (Gemini-style).
	ProtocolPrompt = "prompt"
)

// Memory store kinds.
const (
	MemoryStoreFile  = "file"
	MemoryStoreRedis = "redis"
)

// Config represents the complete arena configuration.
type Config struct {
	Temperature TemperatureConfig        `mapstructure:"temperature"`
	Roles       RolesConfig              `mapstructure:"roles"`
	Backends    map[string]BackendConfig `mapstructure:"backends"`
	Memory      MemoryConfig             `mapstructure:"memory"`
	Logging     LoggingConfig            `mapstructure:"logging"`
}

// TemperatureConfig bounds the creativity setting shared by all generation
// calls in a run. The judge ignores it and uses a fixed low temperature.
type TemperatureConfig struct {
	// Default is used when the caller does not supply a temperature.
	Default float64 `mapstructure:"default"`
	// Min is the lowest accepted temperature.
	Min float64 `mapstructure:"min"`
	// Max is the highest accepted temperature.
	Max float64 `mapstructure:"max"`
}

// RolesConfig maps each logical debate role to a default backend key.
// Any registered backend key may be bound to any role at run time.
type RolesConfig struct {
	DebaterA string `mapstructure:"debater_a"`
	DebaterB string `mapstructure:"debater_b"`
	Judge    string `mapstructure:"judge"`
}

// BackendConfig describes one generation backend registration.
type BackendConfig struct {
	// Protocol selects the wire shape: "chat" or "prompt".
	Protocol string `mapstructure:"protocol"`
	// Endpoint is the API base URL.
	Endpoint string `mapstructure:"endpoint"`
	// Model is the backend model identifier.
	Model string `mapstructure:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `mapstructure:"api_key_env"`
	// DisplayName is the human-readable label used in transcripts and
	// verdicts (e.g. "OpenAI", "Grok").
	DisplayName string `mapstructure:"display_name"`
	// TimeoutSeconds is the per-request HTTP timeout (default: 60).
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// MemoryConfig controls the debate memory store.
type MemoryConfig struct {
	// Store selects the backing implementation: "file" or "redis".
	Store string `mapstructure:"store"`
	// Dir is the directory for the file store (default: ~/.local/share/arena/memory).
	Dir string `mapstructure:"dir"`
	// RedisAddr is the host:port for the redis store.
	RedisAddr string `mapstructure:"redis_addr"`
	// RedisDB is the redis database number.
	RedisDB int `mapstructure:"redis_db"`
	// TopK is the number of past debates retrieved per question.
	TopK int `mapstructure:"top_k"`
	// SnippetMaxChars truncates each retrieved snippet before it enters
	// the run state.
	SnippetMaxChars int `mapstructure:"snippet_max_chars"`
	// ContextMaxChars hard-truncates the joined memory block handed to
	// the opening prompts. Applied after joining, not per snippet.
	ContextMaxChars int `mapstructure:"context_max_chars"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Dir is the directory for log files; empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Temperature: TemperatureConfig{
			Default: 0.6,
			Min:     0.0,
			Max:     1.0,
		},
		Roles: RolesConfig{
			DebaterA: "openai",
			DebaterB: "grok",
			Judge:    "gemini",
		},
		Backends: map[string]BackendConfig{
			"openai": {
				Protocol:       ProtocolChat,
				Endpoint:       "https://api.openai.com/v1",
				Model:          "gpt-4.1-mini",
				APIKeyEnv:      "OPENAI_API_KEY",
				DisplayName:    "OpenAI",
				TimeoutSeconds: 60,
			},
			"grok": {
				Protocol:       ProtocolChat,
				Endpoint:       "https://api.x.ai/v1",
				Model:          "grok-3-mini",
				APIKeyEnv:      "GROK_API_KEY",
				DisplayName:    "Grok",
				TimeoutSeconds: 60,
			},
			"gemini": {
				Protocol:       ProtocolPrompt,
				Endpoint:       "https://generativelanguage.googleapis.com",
				Model:          "gemini-2.0-flash-lite",
				APIKeyEnv:      "GEMINI_API_KEY",
				DisplayName:    "Gemini",
				TimeoutSeconds: 60,
			},
		},
		Memory: MemoryConfig{
			Store:           MemoryStoreFile,
			Dir:             defaultMemoryDir(),
			RedisAddr:       "localhost:6379",
			RedisDB:         0,
			TopK:            3,
			SnippetMaxChars: 500,
			ContextMaxChars: 1200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers all default values with viper so they apply even
// when no config file is present.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("temperature.default", defaults.Temperature.Default)
	viper.SetDefault("temperature.min", defaults.Temperature.Min)
	viper.SetDefault("temperature.max", defaults.Temperature.Max)

	viper.SetDefault("roles.debater_a", defaults.Roles.DebaterA)
	viper.SetDefault("roles.debater_b", defaults.Roles.DebaterB)
	viper.SetDefault("roles.judge", defaults.Roles.Judge)

	for key, b := range defaults.Backends {
		viper.SetDefault("backends."+key+".protocol", b.Protocol)
		viper.SetDefault("backends."+key+".endpoint", b.Endpoint)
		viper.SetDefault("backends."+key+".model", b.Model)
		viper.SetDefault("backends."+key+".api_key_env", b.APIKeyEnv)
		viper.SetDefault("backends."+key+".display_name", b.DisplayName)
		viper.SetDefault("backends."+key+".timeout_seconds", b.TimeoutSeconds)
	}

	viper.SetDefault("memory.store", defaults.Memory.Store)
	viper.SetDefault("memory.dir", defaults.Memory.Dir)
	viper.SetDefault("memory.redis_addr", defaults.Memory.RedisAddr)
	viper.SetDefault("memory.redis_db", defaults.Memory.RedisDB)
	viper.SetDefault("memory.top_k", defaults.Memory.TopK)
	viper.SetDefault("memory.snippet_max_chars", defaults.Memory.SnippetMaxChars)
	viper.SetDefault("memory.context_max_chars", defaults.Memory.ContextMaxChars)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load unmarshals the current viper state into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory where the arena config file lives.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "arena")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "arena")
}

// defaultMemoryDir returns the default directory for the file memory store.
func defaultMemoryDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "arena", "memory")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "arena-memory")
	}
	return filepath.Join(home, ".local", "share", "arena", "memory")
}

// APIKey resolves the backend's API key from its configured environment
// variable. Returns an empty string when unset.
func (b BackendConfig) APIKey() string {
	if b.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(b.APIKeyEnv)
}
