package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/SinArtur/Sstu-DB/core/logger"
)

const maxRedirects = 10

// browserHeaders make the upstream treat the call as a page load.
// Accept-Encoding is left to the transport so compressed bodies are decoded.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
	"Upgrade-Insecure-Requests": "1",
}

// Proxy forwards requests to allow-listed upstream hosts.
type Proxy struct {
	defaultTarget string
	allowedHosts  []string
	timeout       time.Duration
	maxBodyBytes  int64
	httpClient    *http.Client
	logger        *slog.Logger
}

// New creates a Proxy. The default target must be an absolute http(s) url.
func New(opts ...Option) (*Proxy, error) {
	p := &Proxy{
		defaultTarget: DefaultTarget,
		timeout:       DefaultTimeout,
		maxBodyBytes:  DefaultMaxBodyBytes,
		httpClient:    &http.Client{},
		logger:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}

	def, err := parseTarget(p.defaultTarget)
	if err != nil {
		return nil, err
	}
	if len(p.allowedHosts) == 0 {
		p.allowedHosts = []string{def.Hostname()}
	}
	for i, h := range p.allowedHosts {
		p.allowedHosts[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if !p.allowed(def) {
		return nil, fmt.Errorf("%w: default target %s", ErrHostNotAllowed, def.Host)
	}

	client := *p.httpClient
	client.CheckRedirect = p.checkRedirect
	p.httpClient = &client
	return p, nil
}

// ServeHTTP forwards r to the target named by its url query parameter.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	setCORS(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	raw := r.URL.Query().Get("url")
	if raw == "" {
		raw = p.defaultTarget
	}
	target, err := parseTarget(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !p.allowed(target) {
		p.logger.WarnContext(ctx, "target host rejected",
			logger.Component("proxy"),
			logger.Host(target.Host),
			logger.RequestID(middleware.GetReqID(ctx)),
		)
		writeError(w, http.StatusForbidden, ErrHostNotAllowed)
		return
	}

	start := time.Now()
	resp, err := p.forward(ctx, w, r, target)
	if err != nil {
		p.logger.ErrorContext(ctx, "upstream request failed",
			logger.Component("proxy"),
			logger.Host(target.Host),
			logger.Path(target.Path),
			logger.Latency(time.Since(start)),
			logger.RequestID(middleware.GetReqID(ctx)),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DefaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)

	n, err := io.Copy(w, resp.Body)
	p.logger.DebugContext(ctx, "proxied",
		logger.Component("proxy"),
		logger.Method(r.Method),
		logger.Host(target.Host),
		logger.Path(target.Path),
		logger.StatusCode(resp.StatusCode),
		logger.Latency(time.Since(start)),
		logger.RequestID(middleware.GetReqID(ctx)),
		slog.Int64("bytes", n),
		logger.Error(err),
	)
}

func (p *Proxy) forward(ctx context.Context, w http.ResponseWriter, r *http.Request, target *url.URL) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)

	var body io.Reader
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		body = http.MaxBytesReader(w, r.Body, p.maxBodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target.String(), body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && body != nil {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()
		if timedOut {
			return nil, fmt.Errorf("%w: timed out after %s", ErrUpstream, p.timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (p *Proxy) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return ErrTooManyRedirect
	}
	if !p.allowed(req.URL) {
		return fmt.Errorf("%w: redirect to %s", ErrHostNotAllowed, req.URL.Host)
	}
	return nil
}

func (p *Proxy) allowed(u *url.URL) bool {
	return slices.Contains(p.allowedHosts, strings.ToLower(u.Hostname()))
}

func parseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, raw)
	}
	return u, nil
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, "Error: "+err.Error())
}

// cancelBody releases the upstream timeout once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
