// Package feeds fetches and decodes the upstream forecast feeds: met.no
// location and air quality forecasts, met.no sunrise times and the NOAA
// SWPC three-day KP forecast.
package feeds

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/nattklar/internal/assets"
	"github.com/litescript/nattklar/internal/logging"
	"github.com/litescript/nattklar/internal/version"
)

const (
	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultRate and DefaultBurst bound outbound requests across all feeds.
	DefaultRate  = 5.0
	DefaultBurst = 5

	maxErrorBody = 512
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	Endpoint assets.Endpoint
	Code     int
	Body     []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.Code)
}

// Client fetches every feed through one HTTP client and one rate limiter.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	bases     map[assets.Endpoint]string
	userAgent string
	limiter   *rate.Limiter
	now       func() time.Time
	logger    *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL serves every endpoint from base instead of its default host.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		for _, e := range assets.Endpoints() {
			c.bases[e] = base
		}
	}
}

// WithEndpointBase overrides the host of a single endpoint.
func WithEndpointBase(e assets.Endpoint, base string) Option {
	return func(c *Client) {
		c.bases[e] = base
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithRate sets the request rate shared by all feeds.
func WithRate(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header. met.no rejects requests
// without an identifying one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithClock sets the time source used to drop past forecast steps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a feed client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		bases:     make(map[assets.Endpoint]string),
		userAgent: version.UserAgent(),
		limiter:   rate.NewLimiter(rate.Limit(DefaultRate), DefaultBurst),
		now:       time.Now,
		logger:    logging.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// coord formats a coordinate with at most four decimals.
func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

func (c *Client) fetch(ctx context.Context, e assets.Endpoint, values ...string) ([]byte, error) {
	u, err := e.URL(c.bases[e], values...)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", e, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Endpoint: e, Code: resp.StatusCode, Body: body}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Debug("%s: %d bytes in %v", e, len(body), time.Since(start).Round(time.Millisecond))
	return body, nil
}
