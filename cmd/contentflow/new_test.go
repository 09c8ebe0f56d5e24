package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTitle(t *testing.T) {
	cases := map[string]string{
		"my-site":  "My Site",
		"mysite":   "Mysite",
		"a--b":     "A  B",
		"":         "",
		"launch-x": "Launch X",
	}
	for in, want := range cases {
		assert.Equal(t, want, toTitle(in), in)
	}
}

func TestRunNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "launch-site")
	require.NoError(t, runNew(dir))

	cfg, err := os.ReadFile(filepath.Join(dir, "contentflow.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "name: Launch Site")

	_, err = os.Stat(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "content", "index.plain.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<div class="hero">`)
	assert.NotContains(t, string(index), "[[")

	assert.Error(t, runNew(dir), "existing directory")
}
