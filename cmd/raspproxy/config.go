package main

import (
	"github.com/SinArtur/Sstu-DB/core/proxy"
	"github.com/SinArtur/Sstu-DB/core/server"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Server   server.Config
	Proxy    proxy.Config
}
