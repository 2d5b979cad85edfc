package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultClaudeBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion     = "2023-06-01"
	claudeMaxTokens      = 4096
)

// ClaudeConfig configures a ClaudeClient.
type ClaudeConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// ClaudeClient talks to the Anthropic Messages API.
type ClaudeClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClaudeClient creates a new Anthropic client.
func NewClaudeClient(cfg ClaudeConfig) *ClaudeClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultClaudeBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &ClaudeClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

type claudeRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream,omitempty"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage *claudeUsage `json:"usage"`
}

func (c *ClaudeClient) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	body, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		Stream:    stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

// GenerateContent performs one blocking Messages call.
func (c *ClaudeClient) GenerateContent(ctx context.Context, prompt string) (*Response, error) {
	resp, err := c.post(ctx, prompt, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	result := &Response{Text: text.String()}
	if out.Usage != nil {
		result.Usage = &TokenUsage{
			PromptTokens:     out.Usage.InputTokens,
			CompletionTokens: out.Usage.OutputTokens,
			TotalTokens:      out.Usage.InputTokens + out.Usage.OutputTokens,
		}
	}
	return result, nil
}

// GenerateContentStream streams text deltas from the Messages API.
func (c *ClaudeClient) GenerateContentStream(ctx context.Context, prompt string, onChunk func(string) error) (*Response, error) {
	resp, err := c.post(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var full strings.Builder
	err = readEventStream(resp.Body, func(data string) error {
		var evt struct {
			Type  string `json:"type"`
			Delta struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"delta"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return fmt.Errorf("failed to decode stream event: %w", err)
		}
		switch evt.Type {
		case "error":
			if evt.Error != nil {
				return fmt.Errorf("stream error: %s", evt.Error.Message)
			}
			return fmt.Errorf("stream error")
		case "content_block_delta":
			if evt.Delta.Type != "text_delta" || evt.Delta.Text == "" {
				return nil
			}
			full.WriteString(evt.Delta.Text)
			return onChunk(evt.Delta.Text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Response{Text: full.String()}, nil
}
