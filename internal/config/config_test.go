package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OBSIDIAN_VAULT_PATH", "VF_LANG", "APP_LANG", "VF_DETACHED_MODE", "VF_SANDBOX",
		"OPENAI_API_KEY", "GROQ_API_KEY", "CLAUDE_API_KEY", "ANTHROPIC_API_KEY",
		"GEMINI_API_KEY", "GOOGLE_API_KEY",
		"X_API_KEY", "X_API_SECRET", "X_ACCESS_TOKEN", "X_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OBSIDIAN_VAULT_PATH", "/tmp/vault")
	t.Setenv("APP_LANG", "ja")
	t.Setenv("VF_DETACHED_MODE", "true")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/vault", cfg.VaultPath)
	assert.Equal(t, "ja", cfg.Language)
	assert.True(t, cfg.Detached)
	assert.False(t, cfg.Sandbox)

	key, ok := cfg.Credential(ProviderClaude)
	assert.True(t, ok)
	assert.Equal(t, "sk-ant", key)

	assert.Equal(t, []string{ProviderGemini, ProviderClaude}, cfg.AvailableProviders())
}

func TestLanguagePrecedenceAndDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)

	t.Setenv("APP_LANG", "ja")
	t.Setenv("VF_LANG", "en")
	cfg, err = Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)
}

func TestVaultPathExpandsHome(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("OBSIDIAN_VAULT_PATH", "~/Notes")
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Notes"), cfg.VaultPath)
}

func TestLoadReadsDotenvButEnvironmentWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"OBSIDIAN_VAULT_PATH=/from/file\nOPENAI_API_KEY=file-key\nGROQ_API_KEY=groq-key\n"), 0644))

	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.VaultPath)
	assert.Equal(t, envFile, cfg.EnvFile)

	key, _ := cfg.Credential(ProviderOpenAI)
	assert.Equal(t, "env-key", key)
	key, _ = cfg.Credential(ProviderGroq)
	assert.Equal(t, "groq-key", key)
}

func TestLoadMissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.Error(t, err)
}

func TestUnknownProviderSharesGeminiCredential(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	key, ok := cfg.Credential("mistral")
	assert.True(t, ok)
	assert.Equal(t, "g", key)

	_, ok = cfg.Credential(ProviderOpenAI)
	assert.False(t, ok)
}

func TestXCredentialsComplete(t *testing.T) {
	assert.False(t, XCredentials{APIKey: "a"}.Complete())
	assert.True(t, XCredentials{APIKey: "a", APISecret: "b", AccessToken: "c", AccessSecret: "d"}.Complete())
}

func TestRequireVault(t *testing.T) {
	err := (&Config{}).RequireVault()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OBSIDIAN_VAULT_PATH")

	assert.NoError(t, (&Config{VaultPath: t.TempDir()}).RequireVault())
}
