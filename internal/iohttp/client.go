// Package iohttp is the transport shared by provider clients. Each Client
// serves one provider: requests are rate limited, bounded by a timeout,
// and go through a circuit breaker. Errors are classified with errcode.
package iohttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	// maxErrorBody limits how much of a failed response is kept.
	maxErrorBody   = 4 << 10
	// defaultMaxBody is the default limit of successful responses.
	defaultMaxBody = 8 << 20
)

// Client is an HTTP client of one provider.
type Client struct {
	name    string
	timeout time.Duration
	maxBody int64
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// Option changes a setting of a Client.
type Option func(*Client)

// OptTimeout replaces the timeout of the providers configuration.
func OptTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// OptMaxBody sets the largest accepted response body in bytes.
func OptMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// New creates a client for the named provider. The underlying
// http.Client uses the default transport.
func New(name string, cfg config.ProvidersConfig, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps, burst := cfg.RatePerSecond, cfg.Burst
	if rps <= 0 {
		rps = 20
	}
	if burst <= 0 {
		burst = 1
	}

	iometrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	res := &Client{
		name:    name,
		timeout: timeout,
		maxBody: defaultMaxBody,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
	for _, opt := range opts {
		opt(res)
	}
	res.http = &http.Client{Timeout: res.timeout}
	res.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		// a missing record or a bad request is an answer, not an outage
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *statusErr
			return errors.Is(err, ErrTooLarge) ||
				errors.As(err, &se) && se.status < 500
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"provider", name, "from", from.String(), "to", to.String())
			iometrics.CircuitBreakerState.WithLabelValues(name).
				Set(stateValue(to))
			iometrics.CircuitBreakerTransitions.
				WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return res
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// GetJSON sends a GET request and decodes the JSON answer into v.
func (c *Client) GetJSON(
	ctx context.Context,
	rawURL string,
	query url.Values,
	v any,
) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, v); err != nil {
		return DecodeError(c.name, err)
	}
	return nil
}

// PostJSON sends payload as JSON and decodes the JSON answer into v.
func (c *Client) PostJSON(
	ctx context.Context,
	rawURL string,
	payload, v any,
) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return DecodeError(c.name, err)
	}
	body, err := c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, rawURL, bytes.NewReader(data),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	if err = json.Unmarshal(body, v); err != nil {
		return DecodeError(c.name, err)
	}
	return nil
}

// Get sends a GET request and returns the raw body.
func (c *Client) Get(
	ctx context.Context,
	rawURL string,
	query url.Values,
) ([]byte, error) {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
}

type statusErr struct {
	status int
	url    string
	body   string
}

func (e *statusErr) Error() string {
	return fmt.Sprintf("status %d from %s", e.status, e.url)
}

func (c *Client) do(
	ctx context.Context,
	newReq func(context.Context) (*http.Request, error),
) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, RequestError(c.name, "", err)
	}

	req, err := newReq(ctx)
	if err != nil {
		return nil, RequestError(c.name, "", err)
	}
	reqURL := redact(req.URL)

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, &statusErr{
				status: resp.StatusCode, url: reqURL, body: string(b),
			}
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
		if err == nil && int64(len(b)) > c.maxBody {
			return nil, ErrTooLarge
		}
		return b, err
	})
	iometrics.ProviderLatency.WithLabelValues(c.name).
		Observe(time.Since(start).Seconds())

	if err == nil {
		iometrics.ProviderRequests.WithLabelValues(c.name, "success").Inc()
		return body, nil
	}

	var se *statusErr
	switch {
	case errors.Is(err, ErrTooLarge):
		iometrics.ProviderRequests.WithLabelValues(c.name, "failure").Inc()
		return nil, TooLargeError(c.name, reqURL, c.maxBody)
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		iometrics.ProviderRequests.WithLabelValues(c.name, "rejected").Inc()
		return nil, CircuitOpenError(c.name, err)
	case errors.As(err, &se):
		iometrics.ProviderRequests.WithLabelValues(c.name, "failure").Inc()
		return nil, StatusError(c.name, se.url, se.status, se.body)
	default:
		iometrics.ProviderRequests.WithLabelValues(c.name, "failure").Inc()
		return nil, RequestError(c.name, reqURL, err)
	}
}

// redact removes credentials from the query before the URL is logged.
func redact(u *url.URL) string {
	res := *u
	q := res.Query()
	for _, k := range []string{"api_key", "key", "ServiceKey"} {
		if q.Has(k) {
			q.Set(k, "xxx")
		}
	}
	res.RawQuery = q.Encode()
	return res.String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
