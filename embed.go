package contentflow

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"
)

// EmbeddedAssets contains the client runtime shipped with the server:
// contentflow.js (reveal observer, animation toggle, countdowns, menu).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// assetFS is the tree resource loads are checked against: the assets
// directory plus the embedded runtime under public/. Without an assets
// directory every address is accepted.
func (a *App) assetFS() (fs.FS, error) {
	info, err := os.Stat(a.Config.AssetsDir)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	embedded, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return nil, err
	}
	return overlayFS{prefixFS{prefix: "public", fsys: embedded}, os.DirFS(a.Config.AssetsDir)}, nil
}

// overlayFS opens name from the first layer that has it.
type overlayFS []fs.FS

func (o overlayFS) Open(name string) (fs.File, error) {
	for _, layer := range o {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// prefixFS mounts fsys under prefix.
type prefixFS struct {
	prefix string
	fsys   fs.FS
}

func (p prefixFS) Open(name string) (fs.File, error) {
	rest, ok := strings.CutPrefix(name, p.prefix+"/")
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return p.fsys.Open(rest)
}
