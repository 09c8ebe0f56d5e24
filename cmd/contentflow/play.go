package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/eringen/contentflow"
	"github.com/eringen/contentflow/anim"
	"github.com/eringen/contentflow/dom"
	"github.com/eringen/contentflow/page"
)

// PlayCmd implements the 'play' command: it renders a page, binds the block
// animations in process and lets them run, then prints each animated block.
type PlayCmd struct {
	Path string        `arg:"" default:"/" help:"Site path to play"`
	For  time.Duration `default:"10s" help:"How long to run the animations"`
}

func (p *PlayCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	app := contentflow.New(cfg)
	defer app.Close()

	src, err := app.RenderPage(context.Background(), p.Path, false)
	if err != nil {
		return fmt.Errorf("play %s: %w", p.Path, err)
	}
	doc, err := dom.Parse(src)
	if err != nil {
		return err
	}
	ctl := anim.NewController(anim.RealClock())
	bound := page.Bind(doc, app.Registry, ctl, app.Echo.Logger)
	if len(bound) == 0 {
		fmt.Println("no animated blocks")
		return nil
	}
	for _, b := range bound {
		b.SetVisible(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	select {
	case <-ctx.Done():
	case <-time.After(p.For):
	}

	for _, b := range bound {
		b.Close()
	}
	ctl.Do(func() {
		for _, b := range bound {
			fmt.Printf("== %s\n%s\n", b.Name, dom.OuterHTML(b.Node))
		}
	})
	return nil
}
