package main

import (
	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/session"
	"github.com/SinArtur/Sstu-DB/integration/storage/file"
)

const (
	backendFile     = "file"
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

// cliConfig is read from the environment and .env. Settings of the redis,
// postgres and mongo backends are loaded only when that backend is selected.
type cliConfig struct {
	Env           string `env:"APP_ENV" envDefault:"production"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
	Backend       string `env:"SESSION_BACKEND" envDefault:"file"`
	SessionKey    string `env:"SESSION_KEY" envDefault:"auth-storage"`
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
	InviteBaseURL string `env:"SSTU_INVITE_BASE_URL"`
	API           client.Config
	File          file.Config
}

func defaultConfig() cliConfig {
	return cliConfig{
		Env:        "production",
		LogLevel:   "warn",
		Backend:    backendFile,
		SessionKey: session.DefaultKey,
		API: client.Config{
			BaseURL:     "http://localhost:8000/api",
			Timeout:     client.DefaultTimeout,
			RefreshPath: client.DefaultRefreshPath,
			UserAgent:   client.DefaultUserAgent,
		},
	}
}
