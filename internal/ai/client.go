// Package ai talks to the large-language-model providers vf supports.
//
// A Client answers one prompt at a time, either buffered or streamed. The
// Factory builds clients from a provider name, a model and the configured
// credentials; the Registry and Inferrer keep track of which models belong
// to which provider.
package ai

import (
	"context"
)

// TokenUsage reports token counts for one completion.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the result of a completion. Usage is nil when the provider
// did not report it.
type Response struct {
	Text  string
	Usage *TokenUsage
}

// Client is the capability every provider implements.
type Client interface {
	// GenerateContent performs one blocking completion.
	GenerateContent(ctx context.Context, prompt string) (*Response, error)
	// GenerateContentStream delivers text chunks to onChunk as they arrive and
	// returns the accumulated response. An error from onChunk stops the stream.
	GenerateContentStream(ctx context.Context, prompt string, onChunk func(string) error) (*Response, error)
}

// ServiceFactory builds a Client for a provider and model.
type ServiceFactory interface {
	Create(ctx context.Context, provider, model string) (Client, error)
}

// ProviderResolver maps a model name to the provider serving it.
type ProviderResolver interface {
	InferProvider(model string) (string, bool)
}
