package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL          = domain.DefaultBaseURL
	DefaultTimeout          = 120 * time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
	maxErrorBody            = 4 << 10
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds each request (default: 120s).
	Timeout time.Duration

	// Token is an optional bearer token.
	Token string

	// RateLimit is the maximum requests per second. 0 disables throttling.
	RateLimit int

	// BreakerThreshold is the number of consecutive server faults that
	// open the circuit breaker (default: 5).
	BreakerThreshold uint32

	// BreakerCooldown is how long the breaker stays open (default: 30s).
	BreakerCooldown time.Duration

	// HTTPClient overrides the transport. Timeout and Token still apply.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.BackendSettings) Config {
	return Config{
		BaseURL:   s.BaseURL,
		Timeout:   s.Timeout(),
		Token:     s.Token,
		RateLimit: s.RateLimit,
	}
}

// Client talks to the review backend over HTTP.
// Reconfigure swaps the transport without disturbing in-flight calls.
type Client struct {
	conn atomic.Pointer[conn]
}

// conn is one immutable transport configuration.
type conn struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New creates a new backend client.
func New(cfg Config) *Client {
	c := &Client{}
	c.Reconfigure(cfg)
	return c
}

// Reconfigure applies cfg to subsequent calls. The breaker state resets.
func (c *Client) Reconfigure(cfg Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = DefaultBreakerThreshold
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = DefaultBreakerCooldown
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		*httpClient = *cfg.HTTPClient
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	}
	httpClient.Timeout = cfg.Timeout

	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = cfg.RateLimit
	}

	log := logger.L("backend")
	threshold := cfg.BreakerThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "backend",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
		IsSuccessful: func(err error) bool {
			return !isServerFault(err)
		},
	})

	c.conn.Store(&conn{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
	})
	log.Debug("configured", zap.String("base_url", cfg.BaseURL), zap.Bool("token", cfg.Token != ""),
		zap.Int("rate_limit", cfg.RateLimit), zap.Duration("timeout", cfg.Timeout))
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.conn.Load().baseURL
}

// request describes one backend call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, query url.Values, payload any) (request, error) {
	r := request{method: method, path: path, query: query}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return r, fmt.Errorf("marshal request: %w", err)
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes a 2xx JSON answer into out, which may be nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	cn := c.conn.Load()
	if err := cn.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	_, err := cn.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(ctx, cn, r, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s %s: %w", r.method, r.path, domain.ErrBackendUnavailable)
	}
	return err
}

func (c *Client) send(ctx context.Context, cn *conn, r request, out any) error {
	target := cn.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := cn.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	logger.L("backend").Debug("request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Status: resp.StatusCode,
			Method: r.method,
			Path:   r.path,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, out)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	r, err := jsonRequest(method, path, query, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func pathID(id string) string {
	return url.PathEscape(id)
}
