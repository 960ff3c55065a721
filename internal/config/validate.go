package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var (
	validProviders    = map[string]bool{"gemini": true, "openai": true, "anthropic": true}
	validEnvironments = map[string]bool{"development": true, "staging": true, "production": true}
	validCatalogSQL   = map[string]bool{"sqlite3": true, "pgx": true}
	validLogFormats   = map[string]bool{"text": true, "json": true}
)

// Validate checks everything needed to serve classification traffic.
func (c *Config) Validate() error {
	if err := c.ValidateBase(); err != nil {
		return err
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("llm.provider %q is not supported (gemini, openai, anthropic)", c.LLM.Provider)
	}
	if c.LLM.ModelName == "" {
		return errors.New("llm.model_name is required (LLM_MODEL_NAME)")
	}
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required (LLM_API_KEY)")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("llm.max_retries must be at least 1, got %d", c.LLM.MaxRetries)
	}
	if c.LLM.RetryDelay < 0 {
		return fmt.Errorf("llm.retry_delay must be non-negative, got %g", c.LLM.RetryDelay)
	}
	if c.LLM.MaxOutputTokens < 1 {
		return fmt.Errorf("llm.max_output_tokens must be positive, got %d", c.LLM.MaxOutputTokens)
	}
	if c.LLM.BaseURL != "" && c.LLM.Provider != "openai" {
		log.Warnf("llm.base_url is only used by the openai provider; ignoring it for %s", c.LLM.Provider)
	}

	for model, price := range c.Pricing {
		if model == "" {
			return errors.New("pricing contains an empty model name")
		}
		if price.InputPerToken < 0 || price.OutputPerToken < 0 {
			return fmt.Errorf("pricing for model '%s' has negative token cost", model)
		}
	}

	return nil
}

// ValidateBase checks the settings every command needs: app, server, logging
// and catalog. It does not require LLM credentials.
func (c *Config) ValidateBase() error {
	if c.App.Name == "" {
		return errors.New("app.name is required")
	}
	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("app.environment %q must be development, staging or production", c.App.Environment)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}

	if c.Catalog.Driver != "" {
		if !validCatalogSQL[c.Catalog.Driver] {
			return fmt.Errorf("catalog.driver %q is not supported (sqlite3, pgx)", c.Catalog.Driver)
		}
		if c.Catalog.DSN == "" {
			return errors.New("catalog.dsn is required when catalog.driver is set")
		}
		if c.Catalog.Source != "" {
			return errors.New("catalog.source and catalog.driver are mutually exclusive")
		}
	}

	return nil
}
