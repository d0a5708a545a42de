// Command sstu is a terminal client for the Sstu-DB study materials service.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/SinArtur/Sstu-DB/core/config"
)

func main() {
	cfg := defaultConfig()
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "sstu:", err)
		os.Exit(2)
	}

	a := &app{
		cfg:    cfg,
		log:    newLogger(cfg, os.Stderr),
		stdin:  bufio.NewReader(os.Stdin),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
