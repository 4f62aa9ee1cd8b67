// Package config provides centralized configuration for the listdo server.
// Values come from an optional YAML file plus environment variables, with
// the environment taking precedence over the file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all server configuration values.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	DB          DBConfig          `mapstructure:"db"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions"`
	Identity    IdentityConfig    `mapstructure:"identity"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	// Port is the HTTP listen port.
	Port string `mapstructure:"port"`
}

type DBConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`
}

type LLMConfig struct {
	// Provider selects the model backend: "openai", "claude", "gemini",
	// "ollama" or "stub".
	Provider string `mapstructure:"provider"`

	// Model overrides the provider's default model identifier.
	Model string `mapstructure:"model"`

	// APIKey authenticates against the provider. Usually supplied via the
	// provider's environment variable rather than the file.
	APIKey string `mapstructure:"api_key"`

	// BaseURL overrides the provider's default endpoint. Useful for
	// OpenAI-compatible gateways and local Ollama servers.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds a single model call, classification or suggestion.
	Timeout time.Duration `mapstructure:"timeout"`
}

type SuggestionsConfig struct {
	// Max caps how many suggested items one response may carry.
	Max int `mapstructure:"max"`
}

type IdentityConfig struct {
	// Mode selects how requests are attributed to an owner: "static" maps
	// every request to Owner, "header" trusts the named request header.
	Mode   string `mapstructure:"mode"`
	Owner  string `mapstructure:"owner"`
	Header string `mapstructure:"header"`
}

type LogConfig struct {
	// Development switches zap to its human-readable console encoder.
	Development bool `mapstructure:"development"`
}

// Load reads configuration from the given file and the environment. An
// empty path means "config.yaml in the working directory, if present";
// a non-empty path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("db.path", "listdo.db")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("suggestions.max", 4)
	v.SetDefault("identity.mode", "static")
	v.SetDefault("identity.owner", "local")
	v.SetDefault("identity.header", "X-User")
	v.SetDefault("log.development", false)

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Deployment environments usually set these flat variables instead of
	// editing the file.
	if port := v.GetString("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dbPath := v.GetString("DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if provider := v.GetString("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model := v.GetString("LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if baseURL := v.GetString("LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if key := apiKeyFromEnv(v, cfg.LLM.Provider); key != "" {
		cfg.LLM.APIKey = key
	}

	return &cfg, nil
}

// apiKeyFromEnv resolves the conventional key variable for the provider.
func apiKeyFromEnv(v *viper.Viper, provider string) string {
	switch provider {
	case "claude":
		return v.GetString("ANTHROPIC_API_KEY")
	case "gemini":
		return v.GetString("GEMINI_API_KEY")
	case "ollama", "stub":
		return ""
	default:
		return v.GetString("OPENAI_API_KEY")
	}
}

// UseStubs reports whether the server should run with the canned model
// client: either the provider is "stub", or it needs an API key and none
// is configured.
func (c *Config) UseStubs() bool {
	switch c.LLM.Provider {
	case "stub":
		return true
	case "ollama":
		return false // Ollama runs locally, no key needed
	default:
		return c.LLM.APIKey == ""
	}
}
