// Package giphy implements the random-GIF fallback image searcher used
// when primary image search yields nothing.
package giphy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/larsmarsfars/chatsite"
)

const (
	defaultRandomURL = "https://api.giphy.com/v1/gifs/random"

	// rating keeps fallback GIFs site-appropriate.
	rating = "pg-13"

	defaultTimeout = 25 * time.Second
)

// Ensure Client implements chatsite.ImageSearcher at compile time.
var _ chatsite.ImageSearcher = (*Client)(nil)

// Client fetches one random GIF per query from the Giphy API.
type Client struct {
	key        string
	httpClient *http.Client
	randomURL  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithEndpoint overrides the API endpoint for tests.
func WithEndpoint(endpoint string) Option {
	return func(cl *Client) {
		cl.randomURL = endpoint
	}
}

// NewClient creates a Giphy client with the given API key.
func NewClient(key string, opts ...Option) *Client {
	c := &Client{
		key:        key,
		httpClient: &http.Client{Timeout: defaultTimeout},
		randomURL:  defaultRandomURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchImages returns at most one GIF URL for the query, preferring the
// downsized rendition. count is accepted for interface symmetry; the
// random endpoint only ever yields one result.
func (c *Client) SearchImages(ctx context.Context, query string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	params := url.Values{
		"api_key": {c.key},
		"tag":     {query},
		"rating":  {rating},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.randomURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, chatsite.Errorf(chatsite.EUPSTREAM, "giphy: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Data struct {
			Images struct {
				DownsizedLarge struct {
					URL string `json:"url"`
				} `json:"downsized_large"`
			} `json:"images"`
			ImageURL string `json:"image_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, chatsite.Errorf(chatsite.EUPSTREAM, "giphy: malformed response: %v", err)
	}

	if u := payload.Data.Images.DownsizedLarge.URL; u != "" {
		return []string{u}, nil
	}
	if u := payload.Data.ImageURL; u != "" {
		return []string{u}, nil
	}
	return nil, nil
}
