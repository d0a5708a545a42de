package client

import "time"

// Config holds the pipeline settings loaded from the environment.
type Config struct {
	BaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	Timeout     time.Duration `env:"API_TIMEOUT" envDefault:"60s"`
	RefreshPath string        `env:"API_REFRESH_PATH" envDefault:"/auth/token/refresh/"`
	UserAgent   string        `env:"API_USER_AGENT" envDefault:"sstu-db-client/1.0"`
}

const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 60 * time.Second
	// DefaultRefreshPath is the token refresh endpoint relative to the base URL.
	DefaultRefreshPath = "/auth/token/refresh/"
	// DefaultUserAgent is sent when no other agent is configured.
	DefaultUserAgent = "sstu-db-client/1.0"
)
