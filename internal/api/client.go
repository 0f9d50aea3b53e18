// Package api is the HTTP/JSON binding to the workout tracker backend.
//
// Every request is credentialed through the client's cookie jar; the session lives in
// the backend's access_token cookie and is never copied into client state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
	"github.com/shester1kov/go-online-workout-tracker/internal/observability"
)

const (
	DefaultBaseURL = "http://localhost:8080/api/v1"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *observability.Metrics
}

// New returns a client whose requests carry cookies from jar.
func New(baseURL string, jar http.CookieJar, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout, Jar: jar},
	}
}

func (c *Client) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: defaultTimeout}
	}
	return c.HTTPClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return observability.Discard()
	}
	return c.Logger
}

// request describes one round trip. route is the path template used as the metrics
// label so ids do not explode label cardinality.
type request struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	target := c.baseURL() + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s payload: %w", r.method, r.route, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", r.method, r.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends r and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	_, err := c.send(ctx, c.httpClient(), r, out)
	return err
}

func (c *Client) send(ctx context.Context, hc *http.Client, r request, out any) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	log := c.logger().With("request_id", requestID, "method", r.method, "path", r.path)

	start := time.Now()
	resp, err := hc.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.Metrics.ObserveRequest(r.route, r.method, 0, elapsed)
		log.Debug("request failed", "error", err, "duration", elapsed)
		return nil, &NetworkError{Method: r.method, Path: r.path, Err: err}
	}
	defer resp.Body.Close()
	c.Metrics.ObserveRequest(r.route, r.method, resp.StatusCode, elapsed)
	log.Debug("request completed", "status", resp.StatusCode, "duration", elapsed)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, &NetworkError{Method: r.method, Path: r.path, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusSeeOther {
		return resp, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, newStatusError(r.method, r.path, resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp, fmt.Errorf("decode %s %s response: %w", r.method, r.route, err)
	}
	return resp, nil
}

func newStatusError(method, path string, status int, body []byte) *StatusError {
	se := &StatusError{Method: method, Path: path, Status: status}
	var parsed model.ErrorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		se.Message = strings.TrimSpace(parsed.Message)
	}
	if se.Message == "" {
		se.Message = strings.ToLower(http.StatusText(status))
	}
	return se
}

// StatusError is a non-2xx response. Message is the backend's error text when it sent one.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// NetworkError is a request that produced no HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HasStatus reports whether err is a StatusError with the given status.
func HasStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized) || HasStatus(err, http.StatusForbidden)
}
