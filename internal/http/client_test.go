// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/umbrella/internal/logger"
	"github.com/wneessen/umbrella/internal/testhelper"
)

const testFile = "../../testdata/testtype.json"

func TestNew(t *testing.T) {
	client := New(logger.New(slog.LevelInfo))
	if client == nil {
		t.Fatal("expected client to be non-nil")
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %s, got %s", DefaultTimeout, client.timeout)
	}
	client = New(logger.New(slog.LevelInfo), WithTimeout(time.Second), WithBreakerFailures(2))
	if client.timeout != time.Second {
		t.Errorf("expected timeout %s, got %s", time.Second, client.timeout)
	}
}

func TestClient_Fetch(t *testing.T) {
	t.Run("fetching a body should work", func(t *testing.T) {
		want, err := os.ReadFile(testFile)
		if err != nil {
			t.Fatalf("failed to read test file: %s", err)
		}
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			if req.Header.Get("User-Agent") != UserAgent {
				t.Errorf("expected user agent %q, got %q", UserAgent, req.Header.Get("User-Agent"))
			}
			data, err := os.Open(testFile)
			if err != nil {
				t.Fatalf("failed to open JSON response file: %s", err)
			}
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       data,
				Header:     make(stdhttp.Header),
			}, nil
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		got, err := client.Fetch(t.Context(), "https://example.com")
		if err != nil {
			t.Fatalf("failed to fetch response: %s", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("expected body %q, got %q", want, got)
		}
	})
	t.Run("parsing an invalid url should fail", func(t *testing.T) {
		client := New(logger.New(slog.LevelInfo))
		_, err := client.Fetch(t.Context(), "http://example.com/xyz%")
		if err == nil {
			t.Fatal("expected fetch to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse URL") {
			t.Errorf("expected error to contain 'failed to parse URL', got %s", err)
		}
	})
	t.Run("fetch request fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		_, err := client.Fetch(t.Context(), "https://example.com")
		if err == nil {
			t.Fatal("expected fetch request to fail")
		}
	})
	t.Run("non-2xx status codes fail", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 404,
				Body:       io.NopCloser(strings.NewReader("not found")),
				Header:     make(stdhttp.Header),
			}, nil
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		_, err := client.Fetch(t.Context(), "https://example.com")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected status error, got %v", err)
		}
		if statusErr.StatusCode != 404 {
			t.Errorf("expected status code 404, got %d", statusErr.StatusCode)
		}
	})
	t.Run("failing to close the body is only logged", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       &failCloser{Reader: strings.NewReader("payload")},
				Header:     make(stdhttp.Header),
			}, nil
		}

		buf := bytes.NewBuffer(nil)
		client := New(logger.NewLogger(slog.LevelInfo, buf))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		got, err := client.Fetch(t.Context(), "https://example.com")
		if err != nil {
			t.Fatalf("expected fetch to succeed, got %s", err)
		}
		if string(got) != "payload" {
			t.Errorf("expected body to be 'payload', got %q", got)
		}
		if !strings.Contains(buf.String(), "failed to close HTTP request body") {
			t.Errorf("expected close failure to be logged, got %q", buf.String())
		}
	})
	t.Run("open circuit fails fast", func(t *testing.T) {
		calls := 0
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			calls++
			return nil, errors.New("intentionally failing")
		}

		client := New(logger.New(slog.LevelInfo), WithBreakerFailures(2))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		for i := 0; i < 2; i++ {
			if _, err := client.Fetch(t.Context(), "https://example.com"); err == nil {
				t.Fatal("expected fetch request to fail")
			}
		}
		_, err := client.Fetch(t.Context(), "https://example.com")
		if !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("expected error to be %s, got %v", ErrCircuitOpen, err)
		}
		if calls != 2 {
			t.Errorf("expected transport to be called twice, got %d", calls)
		}
	})
}

func TestClient_FetchWithTimeout(t *testing.T) {
	t.Run("fetch request fails on context cancel", func(t *testing.T) {
		testhelper.PerformIntegrationTests(t)
		client := New(logger.New(slog.LevelInfo))
		ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond)
		defer cancel()

		_, err := client.FetchWithTimeout(ctx, testhelper.TestOnlineAPIURL, time.Second*5)
		if err == nil {
			t.Fatal("expected fetch request to fail")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %s", context.DeadlineExceeded, err)
		}
	})
	t.Run("fetch request times out", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}

		client := New(logger.New(slog.LevelInfo))
		client.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		_, err := client.FetchWithTimeout(t.Context(), "https://example.com", time.Millisecond)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected error to be %s, got %v", context.DeadlineExceeded, err)
		}
	})
}

type failCloser struct {
	io.Reader
}

func (failCloser) Close() error { return errors.New("failed to close") }
