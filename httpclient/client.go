package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/voiceorder/resilience"
)

// Client sends requests to one backend. Each attempt runs through the
// circuit breaker when one is configured, and the whole call is retried
// under the retry policy.
type Client struct {
	http    *http.Client
	cfg     Config
	breaker *resilience.CircuitBreaker
}

// New validates cfg and builds a client with its own transport.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		http: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		cfg: cfg,
	}
	if cfg.CircuitBreaker != nil {
		c.breaker = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return c, nil
}

// Name returns the configured client name.
func (c *Client) Name() string { return c.cfg.Name }

// Do sends req. Non-2xx statuses come back as *Error alongside the buffered
// response so callers can still inspect the body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	attempt := func() (*Response, error) { return c.guarded(ctx, req) }
	if c.cfg.Retry == nil {
		return attempt()
	}
	return resilience.Retry(ctx, *c.cfg.Retry, attempt)
}

func (c *Client) guarded(ctx context.Context, req Request) (*Response, error) {
	if c.breaker == nil {
		return c.roundTrip(ctx, req)
	}
	var resp *Response
	err := c.breaker.Execute(func() error {
		var err error
		resp, err = c.roundTrip(ctx, req)
		return err
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, NewCircuitOpenError(c.cfg.Name)
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, req Request) (*Response, error) {
	hreq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	hresp, err := c.http.Do(hreq)
	if err != nil {
		var ne net.Error
		if ctx.Err() != nil || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewConnectionError(err)
	}
	defer func() { _ = hresp.Body.Close() }()

	body, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, NewConnectionError(fmt.Errorf("read response body: %w", err))
	}
	resp := &Response{StatusCode: hresp.StatusCode, Headers: make(map[string]string, len(hresp.Header)), Body: body}
	for k := range hresp.Header {
		resp.Headers[k] = hresp.Header.Get(k)
	}
	if cerr := ClassifyStatusCode(hresp.StatusCode, body); cerr != nil {
		return resp, cerr
	}
	return resp, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("build url: %v", err))
	}
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("encode body: %v", err))
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("create request: %v", err))
	}

	for _, headers := range []map[string]string{c.cfg.Headers, req.Headers} {
		for k, v := range headers {
			hreq.Header.Set(k, v)
		}
	}
	switch {
	case contentType == "":
	case isMultipart(req.Body):
		// The boundary is generated per body.
		hreq.Header.Set("Content-Type", contentType)
	case hreq.Header.Get("Content-Type") == "":
		hreq.Header.Set("Content-Type", contentType)
	}

	auth := c.cfg.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(hreq.Header)
	return hreq, nil
}

func (c *Client) resolve(req Request) (string, error) {
	target := req.Path
	if c.cfg.BaseURL != "" && !strings.Contains(req.Path, "://") {
		target = strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}
	if len(req.Query) == 0 {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range req.Query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isMultipart(body any) bool {
	_, ok := body.(*MultipartBody)
	return ok
}

func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}
