package proxy

import "time"

const (
	DefaultTarget       = "https://rasp.sstu.ru/"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	DefaultContentType  = "text/html; charset=utf-8"
)

// Config holds proxy settings. An empty AllowedHosts allows only the host of
// DefaultTarget.
type Config struct {
	DefaultTarget string        `env:"PROXY_DEFAULT_TARGET" envDefault:"https://rasp.sstu.ru/"`
	AllowedHosts  []string      `env:"PROXY_ALLOWED_HOSTS" envSeparator:","`
	Timeout       time.Duration `env:"PROXY_TIMEOUT" envDefault:"60s"`
	MaxBodyBytes  int64         `env:"PROXY_MAX_BODY_BYTES" envDefault:"10485760"`
}

// NewFromConfig creates a Proxy from cfg. Options override config values.
func NewFromConfig(cfg Config, opts ...Option) (*Proxy, error) {
	configOpts := []Option{
		WithDefaultTarget(cfg.DefaultTarget),
		WithAllowedHosts(cfg.AllowedHosts...),
		WithTimeout(cfg.Timeout),
		WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	return New(append(configOpts, opts...)...)
}
