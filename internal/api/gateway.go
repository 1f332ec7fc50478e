// Package api is the HTTP gateway to the dashboard REST API. It attaches the
// bearer token to every request and turns any 401 into a forced logout.
package api

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

	"github.com/google/uuid"
	"github.com/matheus3301/wppdash/internal/router"
	"go.uber.org/zap"
)

// Session is the part of the session the gateway reads and clears. The
// bearer token is read from the session's memory rather than from durable
// storage; the session writes both together, so they hold the same token.
type Session interface {
	Token() string
	Clear() error
}

// Navigator moves the client to a named route.
type Navigator interface {
	Replace(name string) error
}

// Response is a completed HTTP exchange.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
}

// Decode unmarshals the response body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Options configures a Gateway.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Gateway issues requests against the API base URL.
type Gateway struct {
	baseURL string
	client  *http.Client
	session Session
	nav     Navigator
	logger  *zap.Logger
}

// New creates a gateway. nav may be nil, in which case a 401 only clears the session.
func New(opts Options, sess Session, nav Navigator, logger *zap.Logger) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Gateway{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  client,
		session: sess,
		nav:     nav,
		logger:  logger,
	}
}

// Get issues a GET request.
func (g *Gateway) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post issues a POST request with a JSON body.
func (g *Gateway) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request with a JSON body.
func (g *Gateway) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (g *Gateway) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Remove issues a DELETE request.
func (g *Gateway) Remove(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return g.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends one request. Non-2xx responses are returned as *Error alongside a
// nil Response; the error's Response field holds what the server sent.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	resp, err := g.send(ctx, method, path, body, opts)
	if err != nil {
		g.intercept(err)
		return nil, err
	}
	return resp, nil
}

func (g *Gateway) send(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	cfg := requestConfig{query: url.Values{}, header: http.Header{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	target := g.baseURL + path
	if len(cfg.query) > 0 {
		target += "?" + cfg.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Method: method, Path: path, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := g.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range cfg.header {
		req.Header[k] = vs
	}

	start := time.Now()
	httpResp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &Error{Method: method, Path: path, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Data: data}

	g.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.Status),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	if resp.Status < 200 || resp.Status > 299 {
		return nil, &Error{Method: method, Path: path, Response: resp, Err: fmt.Errorf("unexpected status %d", resp.Status)}
	}
	return resp, nil
}

// intercept handles errors common to every request. A 401 logs the user out
// and sends them to the login route, whichever request triggered it.
func (g *Gateway) intercept(err error) {
	code, ok := StatusOf(err)
	if !ok || code != http.StatusUnauthorized {
		return
	}
	g.logger.Warn("unauthorized response, clearing session", zap.Error(err))
	if cerr := g.session.Clear(); cerr != nil {
		g.logger.Error("failed to clear session", zap.Error(cerr))
	}
	if g.nav == nil {
		return
	}
	if nerr := g.nav.Replace(router.RouteLogin); nerr != nil {
		g.logger.Error("failed to redirect to login", zap.Error(nerr))
	}
}
