package ai

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/config"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
)

// CredentialSource looks up provider API keys.
type CredentialSource interface {
	Credential(provider string) (string, bool)
}

// Factory builds provider clients from configured credentials.
type Factory struct {
	creds      CredentialSource
	logger     *zap.Logger
	httpClient *http.Client
	baseURLs   map[string]string
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithHTTPClient sets the HTTP client used by every provider client.
func WithHTTPClient(c *http.Client) FactoryOption {
	return func(f *Factory) { f.httpClient = c }
}

// WithBaseURL points one provider at a different endpoint.
func WithBaseURL(provider, url string) FactoryOption {
	return func(f *Factory) { f.baseURLs[provider] = url }
}

// NewFactory creates a new client factory.
func NewFactory(creds CredentialSource, logger *zap.Logger, opts ...FactoryOption) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Factory{
		creds:    creds,
		logger:   logger.Named("factory"),
		baseURLs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a client for provider and model. Unknown providers fall
// back to Gemini with a warning.
func (f *Factory) Create(ctx context.Context, provider, model string) (Client, error) {
	if model == "" {
		return nil, apperrors.ModelNotSpecifiedError(provider)
	}
	apiKey, ok := f.creds.Credential(provider)
	if !ok {
		return nil, apperrors.NoCredentialsError(provider)
	}

	f.logger.Debug("creating client", zap.String("provider", provider), zap.String("model", model))

	switch provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey: apiKey, Model: model, BaseURL: f.baseURL(provider, DefaultOpenAIBaseURL), HTTPClient: f.httpClient,
		}), nil
	case config.ProviderGroq:
		return NewOpenAIClient(OpenAIConfig{
			APIKey: apiKey, Model: model, BaseURL: f.baseURL(provider, DefaultGroqBaseURL), HTTPClient: f.httpClient,
		}), nil
	case config.ProviderClaude:
		return NewClaudeClient(ClaudeConfig{
			APIKey: apiKey, Model: model, BaseURL: f.baseURL(provider, DefaultClaudeBaseURL), HTTPClient: f.httpClient,
		}), nil
	case config.ProviderGemini:
	default:
		f.logger.Warn("unknown provider, falling back to gemini", zap.String("provider", provider))
	}

	return NewGeminiClient(ctx, GeminiConfig{
		APIKey: apiKey, Model: model, BaseURL: f.baseURLs[config.ProviderGemini], HTTPClient: f.httpClient,
	})
}

func (f *Factory) baseURL(provider, fallback string) string {
	if u, ok := f.baseURLs[provider]; ok && u != "" {
		return u
	}
	return fallback
}
