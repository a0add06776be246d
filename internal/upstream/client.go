// Package upstream is the outbound HTTP layer for platform APIs. Each
// platform gets its own Client with a request timeout, a circuit breaker
// that opens after consecutive transport failures or 5xx responses, and an
// optional request rate limit.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/maheshrc27/influence-api/internal/metrics"
)

// ErrCircuitOpen is returned without contacting the platform while its breaker is open.
var ErrCircuitOpen = errors.New("circuit open")

type Options struct {
	Timeout time.Duration
	// RatePerSecond limits outgoing requests; zero disables limiting.
	RatePerSecond float64
	Burst         int
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout <= 0 {
		o.OpenTimeout = 30 * time.Second
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	return o
}

// StatusError is a non-2xx response from a platform.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	platform  string
	timeout   time.Duration
	transport *breakerTransport
	http      *http.Client
}

func New(platform string, opts Options) *Client {
	opts = opts.withDefaults()

	t := &breakerTransport{
		platform: platform,
		base:     opts.Transport,
	}
	if opts.RatePerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst)
	}
	t.cb = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        platform,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("upstream circuit breaker state change", "platform", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		platform:  platform,
		timeout:   opts.Timeout,
		transport: t,
		http:      &http.Client{Timeout: opts.Timeout, Transport: t},
	}
}

func (c *Client) Platform() string {
	return c.platform
}

// HTTPClient returns the client without credentials, for token endpoints and
// APIs that take the token as a query parameter.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// WithBearer returns a client that sends accessToken as a Bearer token.
func (c *Client) WithBearer(accessToken string) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Base:   c.transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
		},
	}
}

func (c *Client) State() gobreaker.State {
	return c.transport.cb.State()
}

// GetJSON issues a GET and decodes a 2xx body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// GetJSONWithBearer is GetJSON for APIs that take the token in the
// Authorization header.
func (c *Client) GetJSONWithBearer(ctx context.Context, rawURL, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.do(req, out)
}

// PostForm issues a form-encoded POST and decodes a 2xx body into out.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type breakerTransport struct {
	platform string
	base     http.RoundTripper
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker[*http.Response]
}

type serverError struct {
	code int
}

func (e *serverError) Error() string {
	return "server error " + strconv.Itoa(e.code)
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, &serverError{code: resp.StatusCode}
		}
		return resp, nil
	})

	var se *serverError
	switch {
	case errors.As(err, &se):
		// counted against the breaker, still handed to the caller
		metrics.RecordUpstream(t.platform, strconv.Itoa(se.code), time.Since(start))
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordUpstream(t.platform, "rejected", time.Since(start))
		return nil, fmt.Errorf("%s: %w", t.platform, ErrCircuitOpen)
	case err != nil:
		metrics.RecordUpstream(t.platform, "error", time.Since(start))
		return nil, err
	}

	metrics.RecordUpstream(t.platform, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}
