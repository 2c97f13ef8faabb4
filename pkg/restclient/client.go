// Package restclient is a thin JSON REST client over resty. A client is built
// once from an immutable Config, sends wildcard media types, attaches HTTP
// Basic Auth when both credential halves are configured, and maps response
// statuses >= 400 to typed errors.
package restclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const wildcardMediaType = "*/*"

// Client issues GET/POST requests against a fixed base URL and decodes JSON
// response bodies. Each call is an independent round trip; the client holds
// no per-request state, so it is safe for concurrent use to the extent the
// underlying transport is.
type Client struct {
	cfg     Config
	baseURL string
	rest    *resty.Client
}

// New builds a client from cfg. The resty transport is created here and lives
// for the client's lifetime; Basic Auth is attached only if both user and
// password are present.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	rest := resty.New()
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}
	if cfg.hasBasicAuth() {
		rest.SetBasicAuth(cfg.User, cfg.Password)
	}

	return &Client{
		cfg:     cfg,
		baseURL: cfg.BaseURL(),
		rest:    rest,
	}, nil
}

// Config returns a copy of the client's connection settings.
func (c *Client) Config() Config { return c.cfg }

// BaseURL returns the fixed scheme://host[:port]basePath prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON issues a GET to baseURL+path with params as query parameters and
// decodes the response body into out, which must be a non-nil pointer.
func (c *Client) GetJSON(ctx context.Context, path string, params map[string]string, out any) error {
	return c.callJSON(ctx, resty.MethodGet, path, params, out)
}

// PostJSON issues a POST to baseURL+path with params as query parameters and
// decodes the response body into out, which must be a non-nil pointer.
func (c *Client) PostJSON(ctx context.Context, path string, params map[string]string, out any) error {
	return c.callJSON(ctx, resty.MethodPost, path, params, out)
}

func (c *Client) callJSON(ctx context.Context, method, path string, params map[string]string, out any) error {
	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", wildcardMediaType).
		SetHeader("Accept", wildcardMediaType)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= 400 {
		return newResponseError(resp.StatusCode(), resp.Body())
	}

	// Any status below 400 is success and the body is decoded as-is.
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &DecodeError{cause: err}
	}
	return nil
}

// Get issues a GET and returns the body decoded as T.
func Get[T any](ctx context.Context, c *Client, path string, params map[string]string) (T, error) {
	var out T
	err := c.GetJSON(ctx, path, params, &out)
	return out, err
}

// Post issues a POST and returns the body decoded as T.
func Post[T any](ctx context.Context, c *Client, path string, params map[string]string) (T, error) {
	var out T
	err := c.PostJSON(ctx, path, params, &out)
	return out, err
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
