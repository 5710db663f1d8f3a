// Package config provides configuration for the relay.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "RELAY"

// Config holds the relay configuration.
type Config struct {
	// Server settings
	HTTPPort        int           `mapstructure:"http_port"`
	StaticDir       string        `mapstructure:"static_dir"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Database
	DatabaseDriver string `mapstructure:"database_driver"`
	DatabaseURL    string `mapstructure:"database_url"`

	// Model provider
	Mode             string        `mapstructure:"mode"`
	LLMBaseURL       string        `mapstructure:"llm_base_url"`
	LLMAPIKey        string        `mapstructure:"llm_api_key"`
	LLMModel         string        `mapstructure:"llm_model"`
	LLMTimeout       time.Duration `mapstructure:"llm_timeout"`
	SummaryMaxTokens int           `mapstructure:"summary_max_tokens"`

	// Tools
	ToolPolicyFile string `mapstructure:"tool_policy_file"`

	// WebSocket settings
	PingInterval   time.Duration `mapstructure:"ws_ping_interval"`
	WriteTimeout   time.Duration `mapstructure:"ws_write_timeout"`
	ReadTimeout    time.Duration `mapstructure:"ws_read_timeout"`
	MaxMessageSize int64         `mapstructure:"ws_max_message_size"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8000)
	v.SetDefault("static_dir", "")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("database_driver", "sqlite3")
	v.SetDefault("database_url", "relay.db")

	v.SetDefault("mode", "")
	v.SetDefault("llm_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm_api_key", "")
	v.SetDefault("llm_model", "llama-3.1-8b-instant")
	v.SetDefault("llm_timeout", "60s")
	v.SetDefault("summary_max_tokens", 150)

	v.SetDefault("tool_policy_file", "")

	v.SetDefault("ws_ping_interval", "30s")
	v.SetDefault("ws_write_timeout", "10s")
	v.SetDefault("ws_read_timeout", "60s")
	v.SetDefault("ws_max_message_size", 65536)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load reads configuration from defaults, an optional YAML file and
// RELAY_-prefixed environment variables, in increasing precedence. An empty
// path looks for relay.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("relay")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Provider keys are commonly exported without the prefix.
	if err := v.BindEnv("llm_api_key", EnvPrefix+"_LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}
	if c.PingInterval <= 0 || c.ReadTimeout <= c.PingInterval {
		return fmt.Errorf("ws_read_timeout (%s) must exceed ws_ping_interval (%s)", c.ReadTimeout, c.PingInterval)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("invalid ws_max_message_size %d", c.MaxMessageSize)
	}
	return nil
}
