package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Brecha AI Service", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Server.Addr)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay())
	assert.Equal(t, 2048, cfg.LLM.MaxOutputTokens)
	assert.False(t, cfg.LLM.ValidateLabels)
	assert.Equal(t, "categories", cfg.Catalog.Table)
	assert.Nil(t, cfg.Origins())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL_NAME", "gpt-4o-mini")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("LLM_MAX_RETRIES", "5")
	t.Setenv("LLM_RETRY_DELAY", "0.25")
	t.Setenv("LLM_VALIDATE_LABELS", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.ModelName)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay())
	assert.True(t, cfg.LLM.ValidateLabels)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_GeminiAliases(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_MODEL_NAME", "gemini-1.5-flash")
	t.Setenv("GEMINI_MAX_RETRIES", "4")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.ModelName)
	assert.Equal(t, 4, cfg.LLM.MaxRetries)

	t.Setenv("LLM_API_KEY", "primary")
	cfg, err = LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.LLM.APIKey, "LLM_* takes precedence over GEMINI_*")
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `
llm:
  provider: anthropic
  model_name: claude-3-5-haiku-latest
  api_key: file-key
catalog:
  source: categorias.csv
pricing:
  claude-3-5-haiku-latest:
    input_per_token: 0.0000008
    output_per_token: 0.000004
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "categorias.csv", cfg.Catalog.Source)

	price, ok := cfg.PricingFor("claude-3-5-haiku-latest")
	require.True(t, ok)
	assert.InDelta(t, 0.0000008, price.InputPerToken, 1e-12)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("llm: [unclosed"), 0o600))

	_, err := LoadConfigFrom(dir)
	assert.Error(t, err)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	cfg.LLM.ModelName = "gemini-1.5-flash"
	cfg.LLM.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing model", mutate: func(c *Config) { c.LLM.ModelName = "" }, wantErr: "llm.model_name"},
		{name: "missing key", mutate: func(c *Config) { c.LLM.APIKey = "" }, wantErr: "llm.api_key"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "mistral" }, wantErr: "not supported"},
		{name: "zero retries", mutate: func(c *Config) { c.LLM.MaxRetries = 0 }, wantErr: "at least 1"},
		{name: "negative delay", mutate: func(c *Config) { c.LLM.RetryDelay = -1 }, wantErr: "non-negative"},
		{name: "zero delay", mutate: func(c *Config) { c.LLM.RetryDelay = 0 }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "bad environment", mutate: func(c *Config) { c.App.Environment = "qa" }, wantErr: "app.environment"},
		{name: "bad driver", mutate: func(c *Config) { c.Catalog.Driver = "mysql"; c.Catalog.DSN = "x" }, wantErr: "catalog.driver"},
		{name: "driver without dsn", mutate: func(c *Config) { c.Catalog.Driver = "sqlite3" }, wantErr: "catalog.dsn"},
		{name: "driver and source", mutate: func(c *Config) {
			c.Catalog.Driver = "pgx"
			c.Catalog.DSN = "postgres://localhost/db"
			c.Catalog.Source = "cat.yaml"
		}, wantErr: "mutually exclusive"},
		{name: "negative price", mutate: func(c *Config) {
			c.Pricing = map[string]PricingInfo{"m": {InputPerToken: -1}}
		}, wantErr: "negative token cost"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateBase_DoesNotNeedCredentials(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, cfg.ValidateBase())
	assert.Error(t, cfg.Validate())
}

func TestResolveCatalogPath(t *testing.T) {
	t.Run("empty stays empty", func(t *testing.T) {
		p, err := ResolveCatalogPath("")
		require.NoError(t, err)
		assert.Empty(t, p)
	})

	t.Run("absolute is untouched", func(t *testing.T) {
		p, err := ResolveCatalogPath("/does/not/matter.yaml")
		require.NoError(t, err)
		assert.Equal(t, "/does/not/matter.yaml", p)
	})

	t.Run("home config dir fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, defaultCatalogDir)
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "zz-brecha-test.yaml"), []byte("categories: []"), 0o600))

		p, err := ResolveCatalogPath("zz-brecha-test.yaml")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "zz-brecha-test.yaml"), p)
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		_, err := ResolveCatalogPath("zz-brecha-missing.yaml")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
