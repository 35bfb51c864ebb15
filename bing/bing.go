// Package bing implements URL search and image search against the Bing
// v7 REST APIs. It provides the chatsite.SearchProvider used for crawl
// seed expansion and the primary chatsite.ImageSearcher.
package bing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/larsmarsfars/chatsite"
)

const (
	defaultWebSearchURL   = "https://api.bing.microsoft.com/v7.0/search"
	defaultImageSearchURL = "https://api.bing.microsoft.com/v7.0/images/search"

	// apiKeyHeader carries the subscription key on every request.
	apiKeyHeader = "Ocp-Apim-Subscription-Key"

	defaultTimeout = 25 * time.Second
)

// Ensure Client implements the provider interfaces at compile time.
var (
	_ chatsite.SearchProvider = (*Client)(nil)
	_ chatsite.ImageSearcher  = (*Client)(nil)
)

// Client calls the Bing search APIs with a subscription key.
type Client struct {
	key        string
	httpClient *http.Client
	webURL     string
	imageURL   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithEndpoints overrides the API endpoints. Tests point these at a
// local server.
func WithEndpoints(webURL, imageURL string) Option {
	return func(cl *Client) {
		cl.webURL = webURL
		cl.imageURL = imageURL
	}
}

// NewClient creates a Bing client with the given subscription key.
func NewClient(key string, opts ...Option) *Client {
	c := &Client{
		key:        key,
		httpClient: &http.Client{Timeout: defaultTimeout},
		webURL:     defaultWebSearchURL,
		imageURL:   defaultImageSearchURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to count result URLs for a web search query.
func (c *Client) Search(ctx context.Context, query string, count int) ([]string, error) {
	var payload struct {
		WebPages struct {
			Value []struct {
				URL string `json:"url"`
			} `json:"value"`
		} `json:"webPages"`
	}

	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(count)},
	}
	if err := c.get(ctx, c.webURL, params, &payload); err != nil {
		return nil, err
	}

	var urls []string
	for _, v := range payload.WebPages.Value {
		if v.URL != "" {
			urls = append(urls, v.URL)
		}
	}
	return urls, nil
}

// SearchImages returns up to count image content URLs for a query.
func (c *Client) SearchImages(ctx context.Context, query string, count int) ([]string, error) {
	var payload struct {
		Value []struct {
			ContentURL string `json:"contentUrl"`
		} `json:"value"`
	}

	params := url.Values{
		"q":          {query},
		"count":      {strconv.Itoa(count)},
		"safeSearch": {"Moderate"},
	}
	if err := c.get(ctx, c.imageURL, params, &payload); err != nil {
		return nil, err
	}

	var urls []string
	for _, v := range payload.Value {
		if v.ContentURL == "" {
			continue
		}
		urls = append(urls, v.ContentURL)
		if len(urls) >= count {
			break
		}
	}
	return urls, nil
}

// get performs one authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chatsite.Errorf(chatsite.EUPSTREAM, "bing: HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return chatsite.Errorf(chatsite.EUPSTREAM, "bing: malformed response: %v", err)
	}
	return nil
}
