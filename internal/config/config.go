package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	App struct {
		Name        string `mapstructure:"name"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"app"`

	Server struct {
		Addr           string `mapstructure:"addr"`
		Port           int    `mapstructure:"port"`
		AllowedOrigins string `mapstructure:"allowed_origins"` // "*" or comma separated
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	LLM struct {
		Provider        string  `mapstructure:"provider"` // "gemini", "openai" or "anthropic"
		ModelName       string  `mapstructure:"model_name"`
		APIKey          string  `mapstructure:"api_key"`
		BaseURL         string  `mapstructure:"base_url"` // openai-compatible endpoints only
		MaxRetries      int     `mapstructure:"max_retries"`
		RetryDelay      float64 `mapstructure:"retry_delay"` // seconds
		MaxOutputTokens int     `mapstructure:"max_output_tokens"`
		ValidateLabels  bool    `mapstructure:"validate_labels"`
	} `mapstructure:"llm"`

	Catalog struct {
		Source string `mapstructure:"source"` // YAML/CSV path; empty selects the embedded catalog
		Driver string `mapstructure:"driver"` // "sqlite3" or "pgx" to read from a table instead
		DSN    string `mapstructure:"dsn"`
		Table  string `mapstructure:"table"`
	} `mapstructure:"catalog"`

	// Pricing: map[model] = {input_per_token, output_per_token}
	Pricing map[string]PricingInfo `mapstructure:"pricing"`
}

// envBindings maps config keys to the environment variables read for them, in
// priority order. The GEMINI_* names are what older deployments set.
var envBindings = map[string][]string{
	"app.name":               {"APP_NAME"},
	"app.environment":        {"ENVIRONMENT"},
	"server.addr":            {"HOST"},
	"server.port":            {"PORT"},
	"server.allowed_origins": {"ALLOWED_ORIGINS"},
	"log.level":              {"LOG_LEVEL"},
	"log.format":             {"LOG_FORMAT"},
	"llm.provider":           {"LLM_PROVIDER"},
	"llm.model_name":         {"LLM_MODEL_NAME", "GEMINI_MODEL_NAME"},
	"llm.api_key":            {"LLM_API_KEY", "GEMINI_API_KEY"},
	"llm.base_url":           {"LLM_BASE_URL"},
	"llm.max_retries":        {"LLM_MAX_RETRIES", "GEMINI_MAX_RETRIES"},
	"llm.retry_delay":        {"LLM_RETRY_DELAY", "GEMINI_RETRY_DELAY"},
	"llm.max_output_tokens":  {"LLM_MAX_OUTPUT_TOKENS"},
	"llm.validate_labels":    {"LLM_VALIDATE_LABELS"},
	"catalog.source":         {"CATALOG_SOURCE"},
	"catalog.driver":         {"CATALOG_DRIVER"},
	"catalog.dsn":            {"CATALOG_DSN"},
	"catalog.table":          {"CATALOG_TABLE"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Brecha AI Service")
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.addr", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay", 2.0)
	v.SetDefault("llm.max_output_tokens", 2048)
	v.SetDefault("llm.validate_labels", false)
	v.SetDefault("catalog.table", "categories")
}

// LoadConfig reads config.yaml from the working directory (optional) and
// overlays environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".")
}

// LoadConfigFrom is LoadConfig with an explicit directory to search for config.yaml.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	config.LLM.Provider = strings.ToLower(strings.TrimSpace(config.LLM.Provider))
	config.App.Environment = strings.ToLower(strings.TrimSpace(config.App.Environment))
	return &config, nil
}

// RetryDelay converts llm.retry_delay seconds to a Duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.LLM.RetryDelay * float64(time.Second))
}

// Origins splits server.allowed_origins. A nil result means every origin is allowed.
func (c *Config) Origins() []string {
	raw := strings.TrimSpace(c.Server.AllowedOrigins)
	if raw == "" || raw == "*" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsProduction reports whether app.environment is "production".
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// PricingFor returns the configured price of model, if any.
func (c *Config) PricingFor(model string) (PricingInfo, bool) {
	p, ok := c.Pricing[model]
	return p, ok
}
