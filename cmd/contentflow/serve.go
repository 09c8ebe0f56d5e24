package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/contentflow"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `help:"Listen address (overrides config)"`
	Watch bool   `help:"Reload pages and reindex when content changes"`
}

func (s *ServeCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	if s.Watch {
		cfg.Watch = true
	}
	app := contentflow.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Echo.Shutdown(shutdown); err != nil {
			app.Echo.Logger.Errorf("shutdown: %v", err)
		}
	}()
	return app.Start()
}
