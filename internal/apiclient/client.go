// Package apiclient talks to the hosted inventory API. It attaches the
// stored bearer token to every request and transparently refreshes it
// once when a request comes back unauthorized.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CredentialStore supplies and replaces the client's tokens
type CredentialStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string)
	Clear()
}

// MemoryCredentials is a CredentialStore kept in process memory
type MemoryCredentials struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (m *MemoryCredentials) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

func (m *MemoryCredentials) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *MemoryCredentials) SetTokens(access, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
}

func (m *MemoryCredentials) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
}

// Client is a configurable HTTP client for the remote API
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
	logger  *zap.Logger

	// onAuthExpired fires when a refresh attempt fails and the stored
	// credentials have been cleared; the UI redirects to login here
	onAuthExpired func()
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAuthExpiredHandler sets the callback for failed refreshes
func WithAuthExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onAuthExpired = fn }
}

// New creates a client for the given base URL
func New(baseURL string, creds CredentialStore, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends a JSON request to the API. On a 401 response with a refresh
// credential available it refreshes the tokens and retries the original
// request exactly once; a request is never retried twice. The caller owns
// the response body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = data
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || c.creds.RefreshToken() == "" {
		return resp, nil
	}
	resp.Body.Close()

	if err := c.refresh(ctx); err != nil {
		c.logger.Warn("Token refresh failed, clearing credentials", zap.Error(err))
		c.creds.Clear()
		if c.onAuthExpired != nil {
			c.onAuthExpired()
		}
		return nil, fmt.Errorf("authorization expired: %w", err)
	}

	// one retry with the replaced credentials
	return c.send(ctx, method, path, payload)
}

// Get issues a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api request %s %s failed with status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) refresh(ctx context.Context) error {
	payload, err := json.Marshal(refreshRequest{RefreshToken: c.creds.RefreshToken()})
	if err != nil {
		return fmt.Errorf("failed to encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var tokens refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}

	c.creds.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return nil
}
