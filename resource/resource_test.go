package resource

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/eringen/contentflow/dom"
)

func TestLoadIsIdempotent(t *testing.T) {
	doc, err := dom.Parse(`<html><head></head><body></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	head := dom.Head(doc)
	l := NewLoader(fstest.MapFS{
		"styles/styles.css":      {Data: []byte("body{}")},
		"scripts/contentflow.js": {Data: []byte("")},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.LoadCSS(ctx, head, "/styles/styles.css"); err != nil {
			t.Fatalf("LoadCSS #%d: %v", i, err)
		}
		if err := l.LoadScript(ctx, head, "/scripts/contentflow.js", "type", "module"); err != nil {
			t.Fatalf("LoadScript #%d: %v", i, err)
		}
	}
	if got := len(dom.QueryAll(head, `link[href="/styles/styles.css"]`)); got != 1 {
		t.Errorf("stylesheet links = %d, want 1", got)
	}
	script := dom.Query(head, `script[src="/scripts/contentflow.js"]`)
	if script == nil || dom.Attr(script, "type") != "module" {
		t.Fatalf("script = %s", dom.OuterHTML(script))
	}
	if got := len(dom.Children(head)); got != 2 {
		t.Errorf("head children = %d, want 2", got)
	}
}

func TestLoadMissingAsset(t *testing.T) {
	doc, _ := dom.Parse(`<html><head></head><body></body></html>`)
	head := dom.Head(doc)
	l := NewLoader(fstest.MapFS{})

	err := l.LoadCSS(context.Background(), head, "/blocks/hero/hero.css")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(dom.Children(head)) != 0 {
		t.Error("failed load must not inject a tag")
	}
}

func TestLoadRemoteAndNilAssets(t *testing.T) {
	doc, _ := dom.Parse(`<html><head></head><body></body></html>`)
	head := dom.Head(doc)

	l := NewLoader(fstest.MapFS{})
	if err := l.LoadScript(context.Background(), head, "https://cdn.example.com/lib.js"); err != nil {
		t.Fatalf("remote script: %v", err)
	}
	open := &Loader{}
	if err := open.LoadCSS(context.Background(), head, "/anything.css"); err != nil {
		t.Fatalf("nil assets: %v", err)
	}
	if len(dom.Children(head)) != 2 {
		t.Errorf("head children = %d, want 2", len(dom.Children(head)))
	}
}
