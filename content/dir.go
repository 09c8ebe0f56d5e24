package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eringen/contentflow/markdown"
)

type format int

const (
	formatHTML format = iota
	formatPlain
	formatMarkdown
)

var suffixes = []struct {
	ext string
	f   format
}{
	{".plain.html", formatPlain},
	{".html", formatHTML},
	{".md", formatMarkdown},
}

// DirSource serves authored pages from a directory. A site path resolves to
// <path>.html (a complete document), <path>.plain.html (body markup) or
// <path>.md (markdown authoring), trying <path>/index.* for directories.
type DirSource struct {
	Root string
}

var (
	_ Source = (*DirSource)(nil)
	_ Lister = (*DirSource)(nil)
)

// NewDirSource returns a source over root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

func (s *DirSource) resolve(p string) (string, format, error) {
	base := CleanPath(p)
	if base == "/" {
		base = "/index"
	}
	var candidates []string
	for _, prefix := range []string{base, base + "/index"} {
		for _, sfx := range []string{".html", ".plain.html", ".md"} {
			candidates = append(candidates, prefix+sfx)
		}
	}
	for _, c := range candidates {
		file := filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(c, "/")))
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		return file, formatOf(file), nil
	}
	return "", 0, fmt.Errorf("%w: %s", ErrNotFound, p)
}

func formatOf(file string) format {
	for _, s := range suffixes {
		if strings.HasSuffix(file, s.ext) {
			return s.f
		}
	}
	return formatHTML
}

func (s *DirSource) read(ctx context.Context, p string) (string, format, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	file, f, err := s.resolve(p)
	if err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return "", 0, fmt.Errorf("content: read %s: %w", p, err)
	}
	if f == formatMarkdown {
		body, err := markdown.Sections(data)
		if err != nil {
			return "", 0, err
		}
		return body, f, nil
	}
	return string(data), f, nil
}

// Page returns the complete document for p.
func (s *DirSource) Page(ctx context.Context, p string) (string, error) {
	src, f, err := s.read(ctx, p)
	if err != nil {
		return "", err
	}
	if f == formatHTML {
		return src, nil
	}
	return Shell(src)
}

// Fragment returns the body markup for p.
func (s *DirSource) Fragment(ctx context.Context, p string) (string, error) {
	src, f, err := s.read(ctx, p)
	if err != nil {
		return "", err
	}
	if f == formatHTML {
		return MainHTML(src)
	}
	return src, nil
}

// List walks the root and returns every page, sorted by path. Hidden files
// and directories are skipped.
func (s *DirSource) List(ctx context.Context) ([]Info, error) {
	seen := make(map[string]int)
	var out []Info
	err := filepath.WalkDir(s.Root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && file != s.Root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, file)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		trimmed := ""
		for _, sfx := range suffixes {
			if strings.HasSuffix(rel, sfx.ext) {
				trimmed = strings.TrimSuffix(rel, sfx.ext)
				break
			}
		}
		if trimmed == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		p := CleanPath(trimmed)
		if i, ok := seen[p]; ok {
			if info.ModTime().After(out[i].Modified) {
				out[i].Modified = info.ModTime()
			}
			return nil
		}
		seen[p] = len(out)
		out = append(out, Info{Path: p, Modified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: list %s: %w", s.Root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
