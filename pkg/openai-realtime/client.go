package openairealtime

import (
	"context"
	"time"
)

// DefaultWebSocketURL is the default WebSocket endpoint.
const DefaultWebSocketURL = "wss://api.openai.com/v1/realtime"

// Client is the OpenAI Realtime API client.
type Client struct {
	config *clientConfig
}

type clientConfig struct {
	apiKey           string
	organization     string
	project          string
	wsURL            string
	handshakeTimeout time.Duration
}

// Option configures the Client.
type Option func(*clientConfig)

// NewClient creates a new OpenAI Realtime client.
//
// The apiKey is required.
func NewClient(apiKey string, opts ...Option) *Client {
	if apiKey == "" {
		panic("openai-realtime: API key is required")
	}

	cfg := &clientConfig{
		apiKey:           apiKey,
		wsURL:            DefaultWebSocketURL,
		handshakeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{config: cfg}
}

// WithOrganization sets the organization ID for API requests.
func WithOrganization(orgID string) Option {
	return func(c *clientConfig) {
		c.organization = orgID
	}
}

// WithProject sets the project ID for API requests.
func WithProject(projectID string) Option {
	return func(c *clientConfig) {
		c.project = projectID
	}
}

// WithWebSocketURL overrides the WebSocket endpoint. Tests point this at an
// httptest server.
func WithWebSocketURL(url string) Option {
	return func(c *clientConfig) {
		c.wsURL = url
	}
}

// WithHandshakeTimeout bounds the websocket opening handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.handshakeTimeout = d
	}
}

// ConnectWebSocket establishes a WebSocket connection to the Realtime API.
func (c *Client) ConnectWebSocket(ctx context.Context, config *ConnectConfig) (*WebSocketSession, error) {
	return c.connectWebSocket(ctx, config)
}
