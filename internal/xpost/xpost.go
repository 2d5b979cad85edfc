// Package xpost publishes posts to X through the v2 API.
package xpost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/dpshade/vaultforge/internal/config"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
)

// DefaultEndpoint is the X API v2 create-post endpoint.
const DefaultEndpoint = "https://api.twitter.com/2/tweets"

// Poster publishes a post and returns its id.
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

// Client signs requests with OAuth 1.0a user context.
type Client struct {
	creds    config.XCredentials
	endpoint string
	base     *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the create-post URL.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets the transport used under the OAuth signer.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.base = h }
}

// NewClient creates an X client. Incomplete credentials are a
// ConfigurationError.
func NewClient(creds config.XCredentials, opts ...Option) (*Client, error) {
	if !creds.Complete() {
		return nil, apperrors.ConfigurationError("X API credentials are incomplete").
			WithDetails("set X_API_KEY, X_API_SECRET, X_ACCESS_TOKEN and X_ACCESS_SECRET")
	}
	c := &Client{
		creds:    creds,
		endpoint: DefaultEndpoint,
		base:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createRequest struct {
	Text string `json:"text"`
}

type createResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// Post implements Poster.
func (c *Client) Post(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	signer := oauth1.NewConfig(c.creds.APIKey, c.creds.APISecret)
	token := oauth1.NewToken(c.creds.AccessToken, c.creds.AccessSecret)
	httpClient := signer.Client(context.WithValue(ctx, oauth1.HTTPClient, c.base), token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", apperrors.XPostError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", apperrors.XPostError(err)
	}

	var out createResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Detail
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", apperrors.XPostError(fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if out.Data.ID == "" {
		return "", apperrors.XPostError(fmt.Errorf("response carried no post id"))
	}
	return out.Data.ID, nil
}
