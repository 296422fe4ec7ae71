package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "MBAADVISOR_AI_APIKEY", "MBAADVISOR_SERVER_APIKEYS", "MBAADVISOR_CHAT_STORE"} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfigFrom(writeConfig(t, "app:\n  logLevel: info\n"))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Chat.WordCutoff)
	assert.Equal(t, 7, cfg.Chat.HistoryLength)
	assert.Equal(t, 3, cfg.Chat.HydeWindow)
	assert.Equal(t, "memory", cfg.Chat.Store)
	assert.Equal(t, "mbaadvisor:session:", cfg.Chat.Redis.KeyPrefix)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Contains(t, cfg.App.SupportedFormats, "console")
	assert.False(t, cfg.Server.TLSEnabled())
	assert.Equal(t, "mbaadvisor", cfg.Observability.ServiceName)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)

	intention := cfg.ForOperation(OperationIntention)
	require.NotNil(t, intention.Temperature)
	assert.InDelta(t, 0.1, *intention.Temperature, 1e-6)
	assert.Equal(t, "gemini-2.0-flash", intention.Model)
	require.NotNil(t, intention.CircuitBreaker)
	assert.True(t, intention.CircuitBreaker.Enabled)
}

func TestLoadConfigFrom_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
ai:
  model: gemini-2.5-flash
  apiKey: from-file
  advice:
    model: gemini-2.5-pro
chat:
  wordCutoff: 100
server:
  port: "9000"
  cors:
    allowedOrigins: ["https://example.com"]
`)
	t.Setenv("MBAADVISOR_AI_APIKEY", "from-env")
	t.Setenv("MBAADVISOR_SERVER_APIKEYS", "k1, k2")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.AI.APIKey, "env overrides file")
	assert.Equal(t, 100, cfg.Chat.WordCutoff)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORS.AllowedOrigins)

	advice := cfg.ForOperation(OperationAdvice)
	assert.Equal(t, "gemini-2.5-pro", advice.Model)
	assert.Equal(t, "from-env", advice.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.ForOperation(OperationChat).Model)
	assert.NoError(t, cfg.RequireAIKey())
}

func TestLoadConfigFrom_GeminiKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "legacy-key")

	cfg, err := LoadConfigFrom(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.ForOperation(OperationHyde).APIKey)
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLoadConfigFrom_MissingPromptFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "ai:\n  prompts:\n    hydeFile: /does/not/exist.md\n")
	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		AI:  AIConfig{Timeout: time.Minute},
		App: AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "text"}},
		Chat: ChatConfig{
			WordCutoff:    4000,
			HistoryLength: 7,
			HydeWindow:    3,
			Store:         "memory",
		},
		Server: ServerConfig{Port: "8080"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero timeout", func(c *Config) { c.AI.Timeout = 0 }, true},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"cert without key", func(c *Config) { c.Server.TLSCertFile = "cert.pem" }, true},
		{"cert and key", func(c *Config) { c.Server.TLSCertFile, c.Server.TLSKeyFile = "cert.pem", "key.pem" }, false},
		{"unsupported format", func(c *Config) { c.App.DefaultFormat = "xml" }, true},
		{"unknown store", func(c *Config) { c.Chat.Store = "disk" }, true},
		{"redis without addr", func(c *Config) { c.Chat.Store = "redis" }, true},
		{"redis with addr", func(c *Config) { c.Chat.Store, c.Chat.Redis.Addr = "redis", "localhost:6379" }, false},
		{"zero cutoff", func(c *Config) { c.Chat.WordCutoff = 0 }, true},
		{"zero history", func(c *Config) { c.Chat.HistoryLength = 0 }, true},
		{"negative ttl", func(c *Config) { c.Chat.SessionTTL = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "err = %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequireAIKey(t *testing.T) {
	cfg := validConfig()
	err := cfg.RequireAIKey()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, appErr.Code)

	cfg.AI.APIKey = "key"
	assert.NoError(t, cfg.RequireAIKey())
}

func TestForOperation_DoesNotAliasGlobals(t *testing.T) {
	cfg := validConfig()
	cfg.AI.MaxRetries = 3

	chat := cfg.ForOperation(OperationChat)
	*chat.MaxRetries = 10

	assert.Equal(t, 3, cfg.AI.MaxRetries)
	assert.Equal(t, 3, *cfg.ForOperation(OperationHyde).MaxRetries)
}
