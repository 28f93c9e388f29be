// Package config loads application configuration from the environment,
// optionally layered over a YAML config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies a supported LLM backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Movie dataset
	DatabasePath string `yaml:"database_path"`
	DatasetURL   string `yaml:"dataset_url"`

	// LLM
	LLMProvider     Provider `yaml:"llm_provider"`
	LLMModel        string   `yaml:"llm_model"`
	LLMTemperature  float64  `yaml:"llm_temperature"`
	OllamaHost      string   `yaml:"ollama_host"`
	OpenAIAPIKey    string   `yaml:"-"`
	AnthropicAPIKey string   `yaml:"-"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables. If REELTALK_CONFIG
// points at a YAML file (or reeltalk.yaml exists in the working directory),
// its values are used as defaults underneath the environment.
func Load() Config {
	cfg := fileDefaults()

	cfg.Host = getEnv("REELTALK_HOST", or(cfg.Host, "0.0.0.0"))
	cfg.Port = getEnvInt("REELTALK_PORT", orInt(cfg.Port, 8000))

	cfg.DatabasePath = getEnv("REELTALK_DB_PATH", or(cfg.DatabasePath, "./movielens.db"))
	cfg.DatasetURL = getEnv("REELTALK_DATASET_URL",
		or(cfg.DatasetURL, "https://files.grouplens.org/datasets/movielens/ml-100k.zip"))

	cfg.LLMProvider = Provider(getEnv("REELTALK_LLM_PROVIDER", or(string(cfg.LLMProvider), "ollama")))
	cfg.LLMModel = getEnv("REELTALK_LLM_MODEL", or(cfg.LLMModel, "qwen3:8b"))
	cfg.LLMTemperature = getEnvFloat("REELTALK_LLM_TEMPERATURE", cfg.LLMTemperature)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", or(cfg.OllamaHost, "http://localhost:11434"))
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")

	cfg.LogFile = getEnv("REELTALK_LOG_FILE", or(cfg.LogFile, "/tmp/reeltalk.log"))
	cfg.LogLevel = parseLogLevel(getEnv("REELTALK_LOG_LEVEL", "INFO"))

	return cfg
}

// Validate checks provider-specific requirements.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY required for provider %q", c.LLMProvider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY required for provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.LLMProvider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// fileDefaults loads the optional YAML config file. A missing file is not an
// error; a malformed one is warned about and ignored, so startup still gets
// the environment and built-in defaults.
func fileDefaults() Config {
	path := os.Getenv("REELTALK_CONFIG")
	if path == "" {
		path = "reeltalk.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("ignoring malformed config file", "path", path, "error", err)
		return Config{}
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func or(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func orInt(val, fallback int) int {
	if val != 0 {
		return val
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
