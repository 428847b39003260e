// Package gateway is the single entry point for remote calls made by the
// client stores. It normalizes every response into the backend's
// {success, data, message} envelope and owns the one cross-cutting side
// effect in the client: the forced-logout hook on HTTP 401.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"gomall/internal/config"
)

var (
	// ErrUnauthorized marks a 401 response. By the time a store sees it the
	// unauthorized hook has already fired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransport marks failures below the envelope: connection errors,
	// timeouts, unparseable responses.
	ErrTransport = errors.New("transport error")
)

// Envelope is the normalized API response. Data stays untyped here; stores
// decode it into their own structures.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// Result is what every store action hands back to the UI layer. Failures of
// either class (transport or application) collapse into Success=false.
type Result struct {
	Success bool
	Message string
}

func OK() Result {
	return Result{Success: true}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

// TokenSource supplies the bearer token attached to every request. An empty
// token means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu             sync.Mutex
	tokens         TokenSource
	onUnauthorized func()
}

func New(cfg config.ClientConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

func (c *Client) SetTokenSource(tokens TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = tokens
}

// SetUnauthorizedHook registers the callback run once per 401 response,
// before the calling store sees the error.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (Envelope, error) {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, body any) (Envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Envelope{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Envelope{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	tokens := c.tokens
	hook := c.onUnauthorized
	c.mu.Unlock()

	if tokens != nil {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn().Str("path", path).Msg("session rejected, forcing logout")
		if hook != nil {
			hook()
		}
		return Envelope{}, ErrUnauthorized
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("%w: decode response %s %s: %v", ErrTransport, method, path, err)
	}
	return env, nil
}
