// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/sony/gobreaker/v2"

	"github.com/wneessen/umbrella/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// DefaultBreakerFailures is the number of consecutive failures that opens the circuit
	DefaultBreakerFailures = 5

	// maxBodySize limits how much of a response body is read into memory
	maxBodySize = 8 << 20
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) umbrella/%s (+https://github.com/wneessen/umbrella/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	// ErrCircuitOpen is returned while the circuit breaker rejects requests
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// StatusError is returned for responses outside of the 2xx range
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status code: %d", e.StatusCode)
}

// Client is a type wrapper for the Go stdlib http.Client with a circuit breaker in front of it
type Client struct {
	*http.Client
	logger  *logger.Logger
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithBreakerFailures sets the number of consecutive failures after which requests fail fast
func WithBreakerFailures(failures uint32) Option {
	return func(c *Client) {
		if failures > 0 {
			c.breaker = newBreaker(failures)
		}
	}
}

// New returns a new HTTP client
func New(logger *logger.Logger, opts ...Option) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: gzhttp.Transport(httpTransport),
	}
	client := &Client{
		Client:  httpClient,
		logger:  logger,
		timeout: DefaultTimeout,
		breaker: newBreaker(DefaultBreakerFailures),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch performs a HTTP GET request for the given URL and returns the raw response body
func (h *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	return h.FetchWithTimeout(ctx, endpoint, h.timeout)
}

// FetchWithTimeout performs a HTTP GET request for the given URL and timeout and returns the raw
// response body. Requests are never retried; while the circuit breaker is open they fail immediately.
func (h *Client) FetchWithTimeout(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)

	body, err := h.breaker.Execute(func() ([]byte, error) {
		return h.do(request)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return nil, err
	}
	return body, nil
}

func (h *Client) do(request *http.Request) ([]byte, error) {
	response, err := h.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if response == nil {
		return nil, errors.New("nil response received")
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func newBreaker(failures uint32) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "umbrella-http",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}
