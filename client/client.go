// Package client provides the HTTP client shared by every registry and CDN
// API call: JSON decoding, per-call timeouts, rate limiting and typed errors
// on top of the fetch transport.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/git-pkgs/jsregistry/fetch"
)

// DefaultTimeout bounds every outbound call unless overridden.
const DefaultTimeout = 10 * time.Second

const defaultUserAgent = "jsregistry"

// RateLimiter controls request pacing. *rate.Limiter satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Client is an HTTP client for registry APIs. Each request is a single
// attempt bounded by the client's timeout.
type Client struct {
	fetcher   fetch.FetcherInterface
	limiter   RateLimiter
	timeout   time.Duration
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimiter paces all requests through l.
func WithRateLimiter(l RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithFetcher replaces the transport.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(fetch.WithUserAgent(c.userAgent)))
	}
	return c
}

// DefaultClient returns a client with sensible defaults:
// - 10s timeout per request
// - no retries
// - per-host circuit breaking
func DefaultClient() *Client {
	return NewClient()
}

// WithTimeout returns a copy of the client that shares the transport but
// bounds requests with d.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	return c.GetJSONWithHeader(ctx, url, nil, v)
}

// GetJSONWithHeader is GetJSON with extra request headers.
func (c *Client) GetJSONWithHeader(ctx context.Context, url string, header http.Header, v any) error {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	resp, err := c.fetch(ctx, url, header)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return c.timeoutError(url, ctx.Err())
		}
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

// Head issues a HEAD request. A nil error means the resource exists.
func (c *Client) Head(ctx context.Context, url string) error {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	if err := c.wait(ctx, url); err != nil {
		return err
	}
	if _, _, err := c.fetcher.Head(ctx, url); err != nil {
		return c.wrap(ctx, url, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string, header http.Header) (*fetch.Response, error) {
	if err := c.wait(ctx, url); err != nil {
		return nil, err
	}
	resp, err := c.fetcher.Fetch(ctx, url, header)
	if err != nil {
		return nil, c.wrap(ctx, url, err)
	}
	return resp, nil
}

func (c *Client) wait(ctx context.Context, url string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return c.wrap(ctx, url, err)
	}
	return nil
}

func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) wrap(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return c.timeoutError(url, ctx.Err())
	}
	return err
}

func (c *Client) timeoutError(url string, cause error) error {
	return &TimeoutError{URL: url, After: c.timeout, Err: cause}
}
