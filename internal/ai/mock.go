package ai

import (
	"context"
	"strings"
	"sync"
)

// ProviderMock is the provider name sandbox runs resolve to.
const ProviderMock = "mock"

// MockResponse is the text a MockClient returns when none is configured.
const MockResponse = "This is a mock response from the vf sandbox."

// MockClient is a deterministic Client. It records every prompt it sees.
type MockClient struct {
	Text   string
	Usage  *TokenUsage
	Err    error
	Chunks []string

	mu      sync.Mutex
	prompts []string
}

// NewMockClient returns a client answering with MockResponse.
func NewMockClient() *MockClient {
	return &MockClient{
		Text:  MockResponse,
		Usage: &TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}
}

// Prompts returns the prompts received so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockClient) record(prompt string) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
}

// GenerateContent implements Client.
func (m *MockClient) GenerateContent(_ context.Context, prompt string) (*Response, error) {
	m.record(prompt)
	if m.Err != nil {
		return nil, m.Err
	}
	return &Response{Text: m.Text, Usage: m.Usage}, nil
}

// GenerateContentStream implements Client. Chunks default to the words of
// Text.
func (m *MockClient) GenerateContentStream(_ context.Context, prompt string, onChunk func(string) error) (*Response, error) {
	m.record(prompt)
	if m.Err != nil {
		return nil, m.Err
	}

	chunks := m.Chunks
	if len(chunks) == 0 {
		chunks = strings.SplitAfter(m.Text, " ")
	}
	var full strings.Builder
	for _, c := range chunks {
		full.WriteString(c)
		if err := onChunk(c); err != nil {
			return nil, err
		}
	}
	return &Response{Text: full.String()}, nil
}

// SandboxFactory always returns the same MockClient, whatever the provider.
type SandboxFactory struct {
	Client *MockClient
}

// NewSandboxFactory creates a factory around a fresh MockClient.
func NewSandboxFactory() *SandboxFactory {
	return &SandboxFactory{Client: NewMockClient()}
}

// Create implements ServiceFactory.
func (f *SandboxFactory) Create(_ context.Context, _, _ string) (Client, error) {
	return f.Client, nil
}

// SandboxResolver resolves every model to the mock provider.
type SandboxResolver struct{}

// InferProvider implements ProviderResolver.
func (SandboxResolver) InferProvider(string) (string, bool) {
	return ProviderMock, true
}
