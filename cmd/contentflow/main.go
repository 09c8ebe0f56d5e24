// Command contentflow serves, renders and indexes a contentflow site.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/eringen/contentflow"
)

// version is set at build time via ldflags.
var version = "dev"

// CLI is the command tree and the global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file (YAML). Environment variables override it." type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd   `cmd:"" help:"Serve the site"`
	Render RenderCmd  `cmd:"" help:"Render one decorated page to stdout or a file"`
	Index  IndexCmd   `cmd:"" help:"Rebuild the query index from the content directory"`
	Play   PlayCmd    `cmd:"" help:"Run a page's block animations and print the resulting markup"`
	New    NewCmd     `cmd:"" help:"Create a new contentflow site"`
	Ver    VersionCmd `cmd:"" name:"version" help:"Print the contentflow version"`
}

// loadConfig reads the configuration the global flags point at.
func (c *CLI) loadConfig() (contentflow.SiteConfig, error) {
	cfg, err := contentflow.LoadConfig(c.Config)
	if err != nil {
		return cfg, err
	}
	if c.Verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("contentflow %s\n", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contentflow"),
		kong.Description("A block-based marketing site server."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
