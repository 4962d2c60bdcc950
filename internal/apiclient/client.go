// Package apiclient calls the admin backend through a chain of interceptors.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
)

const maxErrorBody = 64 << 10

// Handler sends a request and returns its response. Statuses >= 400 surface
// as *ResponseError.
type Handler func(req *http.Request) (*http.Response, error)

// Interceptor wraps every request. It may forward a modified clone of req to
// next, observe the outcome, or both. It must not mutate req itself.
type Interceptor func(req *http.Request, next Handler) (*http.Response, error)

// ResponseError is a completed HTTP exchange whose status signals failure.
type ResponseError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

// Is reports a 401 as domain.ErrUnauthorized.
func (e *ResponseError) Is(target error) bool {
	return target == domain.ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL      *url.URL
	httpClient   *http.Client
	interceptors []Interceptor
}

// New returns a client for baseURL. Interceptors run in the order given: the
// first one sees the request first and the response last.
func New(baseURL string, timeout time.Duration, interceptors ...Interceptor) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &Client{
		baseURL:      u,
		httpClient:   &http.Client{Timeout: timeout},
		interceptors: interceptors,
	}, nil
}

// Do sends req through the interceptor chain.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	next := c.send
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		ic, inner := c.interceptors[i], next
		next = func(r *http.Request) (*http.Response, error) {
			return ic(r, inner)
		}
	}
	return next(req)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &ResponseError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Method:     req.Method,
		URL:        req.URL.String(),
		Body:       body,
	}
}

// Get fetches path relative to the base URL and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Ping issues HEAD on the base URL. Any answer below 500 counts as
// reachable. It bypasses the interceptors so probes neither carry the
// session token nor log out on 401.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping: %s", resp.Status)
	}
	return nil
}

func (c *Client) resolve(path string) string {
	base := strings.TrimSuffix(c.baseURL.String(), "/")
	return base + "/" + strings.TrimPrefix(path, "/")
}
