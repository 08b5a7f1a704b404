package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	sessionDataPath           = "/auth/v1/env/oauth/session-data"
	responseBodyReadLimit int64 = 1 << 16
)

var errBaseURLRequired = errors.New("identity provider base url is required")

// SessionData is the profile payload the provider returns for a session id.
type SessionData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// Client calls the external OAuth-style identity provider. The exchange is
// never retried; callers surface failures as upstream errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds an identity client for the given provider base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ExchangeSession resolves the provider session id into profile data plus the
// session token the browser will carry from here on.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*SessionData, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("session id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sessionDataPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building session-data request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, fmt.Errorf("reading identity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var data SessionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decoding identity response: %w", err)
	}
	if data.SessionToken == "" {
		return nil, errors.New("identity response missing session token")
	}
	return &data, nil
}
