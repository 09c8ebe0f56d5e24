package contentflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eringen/contentflow/content"
)

// SiteConfig holds all configuration for a contentflow site.
type SiteConfig struct {
	Name        string `yaml:"name" env:"SITE_NAME"`               // Site name (default "ContentFlow")
	URL         string `yaml:"url" env:"SITE_URL"`                 // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description" env:"SITE_DESCRIPTION"` // Feed description

	Addr string `yaml:"addr" env:"ADDR"` // Listen address (default ":3000")

	ContentDir string `yaml:"content_dir" env:"CONTENT_DIR"` // Authored pages (default "content")
	// Origin, when set, serves pages from an upstream host instead of
	// ContentDir.
	Origin    string `yaml:"origin" env:"CONTENT_ORIGIN"`
	AssetsDir string `yaml:"assets_dir" env:"ASSETS_DIR"` // blocks/, styles/, scripts/ (default "public")
	MediaDir  string `yaml:"media_dir" env:"MEDIA_DIR"`   // Images served under /media (default "media")
	Watch     bool   `yaml:"watch" env:"WATCH"`           // Reload on content changes

	IndexPath     string        `yaml:"index_path" env:"INDEX_PATH"`         // SQLite path (default "data/index.db")
	IndexURL      string        `yaml:"index_url" env:"INDEX_URL"`           // Remote query-index.json for the product listing
	IndexInterval time.Duration `yaml:"index_interval" env:"INDEX_INTERVAL"` // Reindex period (default 10min)

	PriorityBlocks []string `yaml:"priority_blocks" env:"PRIORITY_BLOCKS" envSeparator:","`

	SessionSecret string `yaml:"-" env:"SESSION_SECRET"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure" env:"COOKIE_SECURE"`

	PageCacheTTL time.Duration `yaml:"page_cache_ttl" env:"PAGE_CACHE_TTL"` // Decorated page TTL (default 5min)
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`   // Upstream client timeout (default 10s)
	MediaRate    int           `yaml:"media_rate" env:"MEDIA_RATE"`         // Resizes per IP per minute (default 60)
	LogLevel     string        `yaml:"log_level" env:"LOG_LEVEL"`           // debug, info, warn, error (default info)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "ContentFlow"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "public"
	}
	if c.MediaDir == "" {
		c.MediaDir = "media"
	}
	if c.IndexPath == "" {
		c.IndexPath = "data/index.db"
	}
	if c.IndexInterval == 0 {
		c.IndexInterval = 10 * time.Minute
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.MediaRate == 0 {
		c.MediaRate = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads path (YAML, optional) and then the environment, after
// loading .env when present. Environment values win over the file.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("contentflow: load .env: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("contentflow: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("contentflow: parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("contentflow: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSource replaces the content source built from the configuration.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}

// WithProducts replaces the product listing source.
func WithProducts(src content.EntrySource) Option {
	return func(a *App) {
		a.Products = src
	}
}
