// Package api provides the streaming client for the chat backend.
package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diogo/streamchat/internal/models"
)

// Client talks to the chat backend. At most one exchange is in flight
// per session; the caller enforces that with its busy flag.
type Client struct {
	baseURL    string
	model      string
	verbose    bool
	httpClient *http.Client
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the model name sent with each request. Empty means
// the backend decides.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithVerbose enables diagnostic output, including skipped-fragment counts.
func WithVerbose(enabled bool) ClientOption {
	return func(c *Client) {
		c.verbose = enabled
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// No request timeout: a streaming reply holds the connection
		// open for as long as the backend keeps producing fragments.
		httpClient: &http.Client{Timeout: 0},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// chatRequest is the outbound request body: the full transcript as
// context, plus the optional model name.
type chatRequest struct {
	Model    string           `json:"model,omitempty"`
	Messages []models.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

// Healthcheck probes the backend root with a short timeout.
func (c *Client) Healthcheck() error {
	hc := &http.Client{Timeout: 5 * time.Second}
	resp, err := hc.Get(c.baseURL + "/")
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "streamchat: "+format+"\n", args...)
	}
}
