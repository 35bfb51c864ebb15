// Package openai implements summarization and chat completion against
// the OpenAI chat-completions API via the go-openai client.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/larsmarsfars/chatsite"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// requestTimeout bounds every completion call. The hosting platform
// imposes no transport timeout of its own, so the client carries one.
const requestTimeout = 25 * time.Second

// Config holds the provider settings recognized from the environment.
type Config struct {
	APIKey  string
	Model   string // defaults to DefaultModel
	Project string // OpenAI-Project header, required for sk-proj keys
	Org     string // OpenAI-Organization header
	BaseURL string // override for tests
}

// Client wraps the go-openai client with the configured model and
// request headers.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a Client from the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Org != "" {
		c.OrgID = cfg.Org
	}
	c.HTTPClient = &http.Client{
		Timeout:   requestTimeout,
		Transport: &headerTransport{project: cfg.Project},
	}

	return &Client{
		api:   openai.NewClientWithConfig(c),
		model: cfg.Model,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// complete issues one chat completion and returns the first choice's
// content. Upstream errors are wrapped with EUPSTREAM and carry the
// provider's status for diagnostics.
func (c *Client) complete(ctx context.Context, temperature float32, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages:    messages,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", chatsite.Errorf(chatsite.EUPSTREAM, "openai %d: %v", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", chatsite.Errorf(chatsite.EUPSTREAM, "openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// headerTransport injects the OpenAI-Project header on every request.
type headerTransport struct {
	project string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.project != "" {
		req.Header.Set("OpenAI-Project", t.project)
	}
	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(req)
}
