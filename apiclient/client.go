// Package apiclient is the single outbound HTTP client of the console. It attaches the
// bearer token of the current session to every request and normalizes failures.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-clinic-console/internal/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 10 << 20

// TokenSource provides the current access token, if any.
type TokenSource interface {
	CurrentToken() (string, bool)
}

// Recorder receives request outcomes. Status is 0 for transport failures.
type Recorder interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
	RecordUnauthorized()
}

type Option func(*Client)

// WithRecorder reports every request to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithHTTPClient replaces the underlying client. Its transport is wrapped with the
// bearer transport; its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	recorder   Recorder
}

// New creates a client for the configured base URL.
func New(cfg config.APIConfig, tokens TokenSource, options ...Option) (*Client, error) {
	base, err := url.Parse(cfg.GetAPIURL())
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base url %q", cfg.GetAPIURL())
	}

	c := &Client{
		baseURL: strings.TrimRight(base.String(), "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: cfg.GetRequestTimeout(),
		},
	}
	if rps := cfg.GetRateLimit(); rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), cfg.GetRateBurst())
	}
	for _, opt := range options {
		opt(c)
	}

	hc := *c.httpClient
	hc.Transport = &bearerTransport{tokens: tokens, base: hc.Transport}
	c.httpClient = &hc
	return c, nil
}

// BaseURL returns the fixed API endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("apiclient: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportError(err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return transportError(err)
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.unauthorized(req)
		}
		return responseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode %s %s: %w", method, path, err)}
	}
	return nil
}

// unauthorized logs a rejected token. The stored session is left as is; callers see
// ErrStaleSession.
func (c *Client) unauthorized(req *http.Request) {
	_, present := c.tokens.CurrentToken()
	log.Warn().
		Str("url", req.URL.Path).
		Bool("token_present", present).
		Msg("unauthorized response from api")
	if c.recorder != nil {
		c.recorder.RecordUnauthorized()
	}
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveRequest(method, status, time.Since(start))
	}
}
