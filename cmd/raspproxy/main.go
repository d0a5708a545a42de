// Command raspproxy serves the schedule proxy over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/SinArtur/Sstu-DB/core/config"
	"github.com/SinArtur/Sstu-DB/core/logger"
	"github.com/SinArtur/Sstu-DB/core/proxy"
	"github.com/SinArtur/Sstu-DB/core/server"
)

const serviceName = "raspproxy"

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	if err := run(cfg, log); err != nil {
		log.Error("raspproxy stopped", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg appConfig) *slog.Logger {
	mode := logger.WithDevelopment(serviceName)
	if cfg.Env == "production" {
		mode = logger.WithProduction(serviceName)
	}
	return logger.New(mode, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := proxy.NewFromConfig(cfg.Proxy, proxy.WithLogger(log))
	if err != nil {
		return err
	}
	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, p.Router()))
	return g.Wait()
}
