package proxy

import (
	"log/slog"
	"net/http"
	"slices"
	"time"
)

// Option configures a Proxy.
type Option func(*Proxy)

// WithDefaultTarget sets the url fetched when the request has none.
func WithDefaultTarget(target string) Option {
	return func(p *Proxy) {
		if target != "" {
			p.defaultTarget = target
		}
	}
}

// WithAllowedHosts replaces the allow-list. Hosts are matched exactly,
// without the port.
func WithAllowedHosts(hosts ...string) Option {
	return func(p *Proxy) {
		if len(hosts) > 0 {
			p.allowedHosts = slices.Clone(hosts)
		}
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(p *Proxy) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxBodyBytes caps the size of a forwarded request body.
func WithMaxBodyBytes(n int64) Option {
	return func(p *Proxy) {
		if n > 0 {
			p.maxBodyBytes = n
		}
	}
}

// WithHTTPClient sets the client for upstream calls. Its CheckRedirect is
// replaced to enforce the allow-list.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Proxy) {
		if c != nil {
			p.httpClient = c
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Proxy) {
		if logger != nil {
			p.logger = logger
		}
	}
}
