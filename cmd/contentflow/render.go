package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eringen/contentflow"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Path   string `arg:"" default:"/" help:"Site path to render"`
	Output string `short:"o" help:"Write to this file instead of stdout" type:"path"`
	Paused bool   `help:"Render with animations paused"`
}

func (r *RenderCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	app := contentflow.New(cfg)
	defer app.Close()

	doc, err := app.RenderPage(context.Background(), r.Path, r.Paused)
	if err != nil {
		return fmt.Errorf("render %s: %w", r.Path, err)
	}
	if r.Output == "" {
		_, err = fmt.Fprintln(os.Stdout, doc)
		return err
	}
	return os.WriteFile(r.Output, []byte(doc), 0o644)
}
