package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/SinArtur/Sstu-DB/core/logger"
	"github.com/SinArtur/Sstu-DB/core/session"
)

// Client dispatches requests to the backend on behalf of a session.
// Safe for concurrent use.
type Client struct {
	baseURL     string
	session     *session.Manager
	http        *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	refreshPath string
	userAgent   string

	onSessionExpired func(ctx context.Context, err error)
	newRequestID     func() string

	refreshes singleflight.Group
}

// New creates a client for the backend rooted at baseURL (for example
// "https://db.example.com/api").
func New(baseURL string, sess *session.Manager, opts ...Option) (*Client, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:      strings.TrimRight(u.String(), "/"),
		session:      sess,
		http:         &http.Client{},
		logger:       logger.Discard(),
		timeout:      DefaultTimeout,
		refreshPath:  DefaultRefreshPath,
		userAgent:    DefaultUserAgent,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a client from Config. Options are applied after the config values.
func NewFromConfig(cfg Config, sess *session.Manager, opts ...Option) (*Client, error) {
	base := []Option{
		WithTimeout(cfg.Timeout),
		WithRefreshPath(cfg.RefreshPath),
		WithUserAgent(cfg.UserAgent),
	}
	return New(cfg.BaseURL, sess, append(base, opts...)...)
}

// MustNew is like New but panics on error.
func MustNew(baseURL string, sess *session.Manager, opts ...Option) *Client {
	c, err := New(baseURL, sess, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Session returns the session manager the client authenticates with.
func (c *Client) Session() *session.Manager {
	return c.session
}

// dispatch is the per-call pipeline state.
type dispatch struct {
	req     *Request
	retried bool
}

// Do sends req and returns the response when its status is below 400.
// Error statuses come back as *APIError. A first 401 triggers one token refresh
// and one redispatch; see the package documentation.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	st := dispatch{req: req}
	for {
		token := c.session.AccessToken()
		resp, err := c.send(ctx, st, token)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode < http.StatusBadRequest:
			return resp, nil
		case resp.StatusCode != http.StatusUnauthorized || st.retried:
			return nil, newAPIError(req, resp)
		}

		if err := c.refresh(ctx, token); err != nil {
			return nil, err
		}
		st.retried = true
	}
}

// Get sends a GET with optional query parameters and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	req := NewRequest(http.MethodGet, path)
	req.Query = query
	return c.doJSON(ctx, req, out)
}

// Post sends in as JSON and decodes the response into out. Either may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPut, path, in, out)
}

// Patch sends in as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete sends a DELETE and decodes a response body, if any, into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, NewRequest(http.MethodDelete, path), out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, req, out)
}

func (c *Client) doJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// send performs one HTTP exchange bounded by the client timeout.
func (c *Client) send(ctx context.Context, st dispatch, token string) (*Response, error) {
	req := st.req
	attempt := 1
	if st.retried {
		attempt = 2
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if req.ContentType != "" {
		header.Set("Content-Type", req.ContentType)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	return c.exchange(ctx, req.Method, c.resolve(req.Path, req.Query), header, req.Body, attempt)
}

// exchange sends one HTTP request and reads the whole response body.
func (c *Client) exchange(ctx context.Context, method, target string, header http.Header, body []byte, attempt int) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	hreq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	for k, vs := range header {
		hreq.Header[k] = vs
	}
	if hreq.Header.Get("Accept") == "" {
		hreq.Header.Set("Accept", "application/json")
	}
	hreq.Header.Set("User-Agent", c.userAgent)
	requestID := c.newRequestID()
	hreq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	hresp, err := c.http.Do(hreq)
	if err != nil {
		err = classify(ctx, err)
		c.logger.WarnContext(ctx, "request failed",
			logger.Method(method),
			logger.Path(hreq.URL.Path),
			logger.RequestID(requestID),
			logger.Attempt(attempt),
			logger.Latency(time.Since(start)),
			logger.Error(err),
		)
		return nil, err
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, classify(ctx, err)
	}

	c.logger.DebugContext(ctx, "request completed",
		logger.Method(method),
		logger.Path(hreq.URL.Path),
		logger.StatusCode(hresp.StatusCode),
		logger.RequestID(requestID),
		logger.Attempt(attempt),
		logger.Latency(time.Since(start)),
	)

	return &Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       data,
	}, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Join(ErrTimeout, err)
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return errors.Join(ErrTimeout, err)
	}
	return errors.Join(ErrTransport, err)
}
