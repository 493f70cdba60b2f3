package servicenow

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	// Scripted REST endpoint exposing high-priority incidents.
	highPriorityPath = "/api/1775050/gemini_integration/incidents/high_priority"

	requestTimeout = 30 * time.Second
)

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client handles communication with a ServiceNow instance.
type Client struct {
	instance   string
	username   string
	password   string
	httpClient HTTPClient
	logger     *zap.Logger
}

// ClientOption allows configuring the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new ServiceNow API client. Credentials fall back to
// the SNOW_* environment variables when the arguments are empty.
func NewClient(instance, username, password string, logger *zap.Logger, opts ...ClientOption) (*Client, error) {
	if instance == "" {
		instance = os.Getenv("SNOW_INSTANCE")
	}
	if username == "" {
		username = os.Getenv("SNOW_USERNAME")
	}
	if password == "" {
		password = os.Getenv("SNOW_PASSWORD")
	}
	if instance == "" {
		return nil, fmt.Errorf("SNOW_INSTANCE environment variable not set")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("SNOW_USERNAME and SNOW_PASSWORD must be set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		instance:   instance,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
