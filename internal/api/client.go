// Package api is the REST transport between backdesk and the backend. It
// builds resource URLs, attaches the bearer credential, removes response
// envelopes and turns failures into the error taxonomy of pkg/types.
package api

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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// RequestIDHeader carries a per-request uuid for correlating backend logs.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// Client implements types.Table over HTTP.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          TokenSource
	logger         *zap.Logger
	metrics        *metrics.Metrics
	onUnauthorized func()
	authPaths      types.AuthConfig
}

var _ types.Table = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCredentials sets the bearer token source.
func WithCredentials(ts TokenSource) Option {
	return func(c *Client) { c.creds = ts }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records every request in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUnauthorizedHook runs fn after any 401 response.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithAuthPaths sets the login and refresh endpoint paths.
func WithAuthPaths(a types.AuthConfig) Option {
	return func(c *Client) { c.authPaths = a }
}

// New creates a client for baseURL. A zero timeout means no client timeout;
// callers still bound requests through their context.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
		authPaths:  types.DefaultConfig().Auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the collection of res and returns its unwrapped JSON array.
func (c *Client) List(ctx context.Context, res types.Resource) ([]byte, error) {
	body, err := c.do(ctx, res.Name, http.MethodGet, res.Path, nil)
	if err != nil {
		return nil, err
	}
	arr, err := UnwrapList(res.Envelope, body)
	if err != nil {
		return nil, &types.TransportError{Op: "decode", URL: c.url(res.Path), Err: err}
	}
	return arr, nil
}

// Create posts draft to the collection path.
func (c *Client) Create(ctx context.Context, res types.Resource, draft types.Draft) ([]byte, error) {
	body, err := c.do(ctx, res.Name, http.MethodPost, res.Path, draft)
	if err != nil {
		return nil, err
	}
	return c.entity(res, res.Path, body)
}

// Update puts draft to the item path of id.
func (c *Client) Update(ctx context.Context, res types.Resource, id types.ID, draft types.Draft) ([]byte, error) {
	if id.IsZero() {
		return nil, types.ErrInvalidID
	}
	path := itemPath(res, id)
	body, err := c.do(ctx, res.Name, http.MethodPut, path, draft)
	if err != nil {
		return nil, err
	}
	return c.entity(res, path, body)
}

// Delete removes the item id.
func (c *Client) Delete(ctx context.Context, res types.Resource, id types.ID) error {
	if id.IsZero() {
		return types.ErrInvalidID
	}
	_, err := c.do(ctx, res.Name, http.MethodDelete, itemPath(res, id), nil)
	return err
}

func (c *Client) entity(res types.Resource, path string, body []byte) ([]byte, error) {
	obj, err := UnwrapEntity(res.Envelope, body)
	if err != nil {
		return nil, &types.TransportError{Op: "decode", URL: c.url(path), Err: err}
	}
	return obj, nil
}

func itemPath(res types.Resource, id types.ID) string {
	return strings.TrimRight(res.Path, "/") + "/" + url.PathEscape(id.String())
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, resource, method, path string, payload any) ([]byte, error) {
	target := c.url(path)

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", resource, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &types.TransportError{Op: method, URL: target, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.logger.With(
		zap.String("resource", resource),
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(resource, method, 0, time.Since(start))
		log.Warn("request failed", zap.Error(err))
		return nil, &types.TransportError{Op: method, URL: target, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.RecordRequest(resource, method, resp.StatusCode, elapsed)
	if err != nil {
		log.Warn("reading response failed", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &types.TransportError{Op: method, URL: target, Err: err}
	}

	log.Debug("request completed", zap.Int("status", resp.StatusCode), zap.Duration("duration", elapsed))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := decodeError(resp.StatusCode, body)
	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		log.Info("backend rejected credential")
		c.onUnauthorized()
	}
	return nil, apiErr
}

// unwrapURLError drops the *url.Error wrapper, whose text repeats the method
// and URL already carried by TransportError.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
