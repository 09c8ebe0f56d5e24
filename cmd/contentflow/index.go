package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/contentflow"
)

// IndexCmd implements the 'index' command.
type IndexCmd struct{}

func (IndexCmd) Run(root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	app := contentflow.New(cfg)
	defer app.Close()
	if err := app.Init(); err != nil {
		return err
	}
	if app.Indexer == nil {
		return errors.New("index: the content source cannot be listed; set content_dir instead of origin")
	}
	n, err := app.Indexer.Refresh(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d pages into %s\n", n, cfg.IndexPath)
	return nil
}
