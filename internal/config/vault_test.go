package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/errors"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

// fakeSecretReader serves fixed values keyed by "path#field"
type fakeSecretReader struct {
	values map[string]string
}

func (f *fakeSecretReader) GetStringSecret(path, key string) (string, error) {
	value, ok := f.values[path+"#"+key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	return value, nil
}

func (f *fakeSecretReader) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := f.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitKeys(value), nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "negative string", input: "-3", expected: -3},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "float string", input: "42.5", expectError: true},
		{name: "empty string", input: "", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestApplyAPIKey(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Intention: OperationAIConfig{APIKey: "existing-intention-key"},
		},
	}

	config.applyAPIKey("test-gemini-key")

	assert.Equal(t, "test-gemini-key", config.AI.APIKey)
	assert.Equal(t, "test-gemini-key", config.AI.Chat.APIKey)
	assert.Equal(t, "existing-intention-key", config.AI.Intention.APIKey, "existing keys are kept")
	assert.Equal(t, "test-gemini-key", config.AI.Hyde.APIKey)
	assert.Equal(t, "test-gemini-key", config.AI.Advice.APIKey)
}

func TestLoadSecretsFromVault(t *testing.T) {
	reader := &fakeSecretReader{values: map[string]string{
		"secret/data/api#keys":       " key-a, key-b ,,",
		"secret/data/gemini#api_key": "gemini-from-vault",
	}}

	config := &Config{
		Server: ServerConfig{APIKeys: []string{"from-config"}},
		Vault: VaultConfig{
			Enabled: true,
			Secrets: VaultSecrets{APIKeys: "secret/data/api", GeminiAPIKey: "secret/data/gemini"},
		},
	}

	require.NoError(t, loadSecretsFromVault(reader, config, newTestLogger()))
	assert.Equal(t, []string{"key-a", "key-b"}, config.Server.APIKeys)
	assert.Equal(t, "gemini-from-vault", config.AI.APIKey)
	assert.Equal(t, "gemini-from-vault", config.ForOperation(OperationChat).APIKey)
}

func TestLoadSecretsFromVault_EmptyKeysKeepConfig(t *testing.T) {
	reader := &fakeSecretReader{values: map[string]string{"secret/data/api#keys": ""}}
	config := &Config{
		Server: ServerConfig{APIKeys: []string{"from-config"}},
		Vault:  VaultConfig{Secrets: VaultSecrets{APIKeys: "secret/data/api"}},
	}

	require.NoError(t, loadSecretsFromVault(reader, config, nil))
	assert.Equal(t, []string{"from-config"}, config.Server.APIKeys)
}

func TestLoadSecretsFromVault_MissingSecret(t *testing.T) {
	reader := &fakeSecretReader{values: map[string]string{}}
	config := &Config{Vault: VaultConfig{Secrets: VaultSecrets{GeminiAPIKey: "secret/data/gemini"}}}

	err := loadSecretsFromVault(reader, config, nil)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeVaultUnavailable, appErr.Code)
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("config token wins over file", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token", TokenFile: "/does/not/exist"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")}, logger)
		assert.Error(t, err)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.Error(t, err)
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, newTestLogger()))
}

func TestExtractSecretData(t *testing.T) {
	tests := []struct {
		name        string
		secret      *api.Secret
		expectError bool
		expected    map[string]any
	}{
		{
			name: "valid KVv2 secret",
			secret: &api.Secret{Data: map[string]any{
				"data": map[string]any{"keys": "a,b"},
			}},
			expected: map[string]any{"keys": "a,b"},
		},
		{
			name:        "missing data field",
			secret:      &api.Secret{Data: map[string]any{"metadata": map[string]any{}}},
			expectError: true,
		},
		{
			name:        "data field wrong type",
			secret:      &api.Secret{Data: map[string]any{"data": "not-a-map"}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extractSecretData(tt.secret, "secret/test")
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestExtractSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		secret      *api.Secret
		expectError bool
		expected    int64
	}{
		{
			name: "version as json number",
			secret: &api.Secret{Data: map[string]any{
				"metadata": map[string]any{"version": float64(7)},
			}},
			expected: 7,
		},
		{
			name:        "missing metadata field",
			secret:      &api.Secret{Data: map[string]any{"data": map[string]any{}}},
			expectError: true,
		},
		{
			name: "missing version field",
			secret: &api.Secret{Data: map[string]any{
				"metadata": map[string]any{"other": "value"},
			}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extractSecretVersion(tt.secret, "secret/test")
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestVaultSecretKeyList(t *testing.T) {
	secret := &VaultSecret{Data: map[string]any{"keys": "k1, k2", "count": 3}}

	keys, err := secret.KeyList("keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, keys)

	_, err = secret.KeyList("count")
	assert.Error(t, err)

	_, err = secret.KeyList("missing")
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****mnop", maskSecret("abcdefghijklmnop"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
