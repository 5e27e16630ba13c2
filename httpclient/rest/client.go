package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/voiceorder/httpclient"
)

var jsonHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// Client speaks JSON to a single backend.
type Client struct {
	base *httpclient.Client
}

// New builds a JSON client. Headers in cfg take precedence over the JSON
// content headers.
func New(cfg httpclient.Config) (*Client, error) {
	headers := maps.Clone(jsonHeaders)
	maps.Copy(headers, cfg.Headers)
	cfg.Headers = headers

	base, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{base: base}, nil
}

// HTTP exposes the underlying client for non-JSON calls.
func (c *Client) HTTP() *httpclient.Client { return c.base }

// RequestOption adjusts one request.
type RequestOption func(*httpclient.Request)

func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Query = params }
}

func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Headers = headers }
}

// WithAuth replaces the client credential for this request only.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *httpclient.Request) { r.Auth = auth }
}

// Response is a decoded JSON reply.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return send[T](ctx, c, http.MethodGet, path, nil, opts)
}

// Post sends body as JSON, or as multipart when it is a *httpclient.MultipartBody.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return send[T](ctx, c, http.MethodPost, path, body, opts)
}

// send decodes error bodies too: a non-2xx reply whose body parses as T is
// returned with the status error so callers can read the error envelope.
func send[T any](ctx context.Context, c *Client, method, path string, body any, opts []RequestOption) (*Response[T], error) {
	req := httpclient.Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.base.Do(ctx, req)
	if resp == nil {
		return nil, err
	}
	out := &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if err != nil {
		if json.Unmarshal(resp.Body, &out.Data) != nil {
			return nil, err
		}
		return out, err
	}
	if len(resp.Body) > 0 {
		if derr := json.Unmarshal(resp.Body, &out.Data); derr != nil {
			return nil, fmt.Errorf("httpclient/rest: decode response: %w", derr)
		}
	}
	return out, nil
}
