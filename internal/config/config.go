// Package config builds the single configuration object vf runs with.
//
// Values come from the process environment, optionally seeded from a dotenv
// file (./.env by default). Environment variables win over the file. The
// object is built once at startup and handed to every component; nothing
// else in vf reads the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Provider names. The order is the order providers are offered in.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderClaude = "claude"
)

// Providers lists every provider vf can build a client for.
var Providers = []string{ProviderGemini, ProviderOpenAI, ProviderGroq, ProviderClaude}

// credentialKeys maps a provider to the environment keys holding its API
// key, in lookup order.
var credentialKeys = map[string][]string{
	ProviderOpenAI: {"OPENAI_API_KEY"},
	ProviderGroq:   {"GROQ_API_KEY"},
	ProviderClaude: {"CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	ProviderGemini: {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// XCredentials are the OAuth 1.0a user-context keys for posting to X.
type XCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four keys are set.
func (x XCredentials) Complete() bool {
	return x.APIKey != "" && x.APISecret != "" && x.AccessToken != "" && x.AccessSecret != ""
}

// Config holds every setting vf reads at startup.
type Config struct {
	VaultPath string
	Language  string
	Detached  bool
	Sandbox   bool
	Editor    string
	EnvFile   string // dotenv file that was read, empty if none

	keys map[string]string
	X    XCredentials
}

// LoadOptions control where Load looks for settings.
type LoadOptions struct {
	// EnvFile overrides the dotenv path. Empty means ./.env when present.
	EnvFile string
}

// Load reads the dotenv file (if any) and the environment.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("vf_lang", "")
	v.SetDefault("app_lang", "")

	envFile := opts.EnvFile
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	cfgFile := ""
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
		cfgFile = envFile
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to open %s: %w", envFile, err)
	}

	return fromViper(v, cfgFile)
}

func fromViper(v *viper.Viper, envFile string) (*Config, error) {
	get := func(key string) string {
		return strings.TrimSpace(v.GetString(strings.ToLower(key)))
	}

	vault, err := expandHome(get("OBSIDIAN_VAULT_PATH"))
	if err != nil {
		return nil, err
	}

	lang := get("VF_LANG")
	if lang == "" {
		lang = get("APP_LANG")
	}
	if lang == "" {
		lang = "en"
	}

	cfg := &Config{
		VaultPath: vault,
		Language:  lang,
		Detached:  get("VF_DETACHED_MODE") == "true",
		Sandbox:   get("VF_SANDBOX") == "true",
		Editor:    get("EDITOR"),
		EnvFile:   envFile,
		keys:      make(map[string]string),
		X: XCredentials{
			APIKey:       get("X_API_KEY"),
			APISecret:    get("X_API_SECRET"),
			AccessToken:  get("X_ACCESS_TOKEN"),
			AccessSecret: get("X_ACCESS_SECRET"),
		},
	}

	for provider, keys := range credentialKeys {
		for _, key := range keys {
			if val := get(key); val != "" {
				cfg.keys[provider] = val
				break
			}
		}
	}

	return cfg, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Credential returns the API key for provider. Unknown providers share the
// Gemini key, matching the client fallback for unknown providers.
func (c *Config) Credential(provider string) (string, bool) {
	if _, known := credentialKeys[provider]; !known {
		provider = ProviderGemini
	}
	key, ok := c.keys[provider]
	return key, ok && key != ""
}

// AvailableProviders lists the providers with a credential, in offer order.
func (c *Config) AvailableProviders() []string {
	var out []string
	for _, p := range Providers {
		if _, ok := c.Credential(p); ok {
			out = append(out, p)
		}
	}
	return out
}

// HasVault reports whether a vault path is configured.
func (c *Config) HasVault() bool {
	return c.VaultPath != ""
}

// RequireVault fails when no vault path is configured.
func (c *Config) RequireVault() error {
	if !c.HasVault() {
		return apperrors.ConfigurationError("vault path is not set (OBSIDIAN_VAULT_PATH)").
			WithDetails("export OBSIDIAN_VAULT_PATH or add it to .env")
	}
	return nil
}

// SetCredential overrides the key for provider. Used by tests and by the
// sandbox wiring.
func (c *Config) SetCredential(provider, key string) {
	if c.keys == nil {
		c.keys = make(map[string]string)
	}
	c.keys[provider] = key
}
