// internal/cli/root.go

// Package cli wires the folio commands.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"folio/internal/backend"
	"folio/internal/builder"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/feed"
	"folio/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Site layout, relative to the working directory.
const (
	contentDir  = "content"
	templateDir = "templates"
	staticDir   = "static"
	outputDir   = "public"
	configFile  = "site.yaml"
)

// App carries the global flags and what they produce.
type App struct {
	ConfigPath string
	Debug      bool
	Unsafe     bool

	Logger zerolog.Logger
}

// NewRootCmd builds the folio command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Serve or generate a portfolio site backed by a hosted projects table",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start a new site
  folio new site my-portfolio

  # Serve it with live reload
  folio serve --watch

  # Write a static snapshot into public/
  folio gen
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.Logger = logging.New(os.Stderr, app.Debug)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", configFile, "Path to the site configuration")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&app.Unsafe, "unsafe", false, "Disable HTML sanitization. Allows all raw HTML.")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newGenCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newPingCmd(app))

	return cmd
}

func (app *App) buildOptions() builder.BuildOptions {
	return builder.BuildOptions{Unsafe: app.Unsafe, Debug: app.Debug}
}

func (app *App) siteConfig() (config.SiteConfig, error) {
	cfg, err := config.LoadOrDefault(app.ConfigPath)
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// sources returns the configured catalog source and feed fetcher. Parts
// that are not configured come back as nil interfaces.
func sources(cfg config.SiteConfig) (catalog.Source, feed.Fetcher, *backend.Client) {
	var (
		src     catalog.Source
		fetcher feed.Fetcher
		client  *backend.Client
	)
	if cfg.Catalog.Enabled() {
		client = backend.New(cfg.Catalog, &http.Client{Timeout: cfg.Catalog.Timeout})
		src = client
	}
	if cfg.Feed.Enabled() {
		fetcher = feed.NewClient(cfg.Feed, &http.Client{Timeout: cfg.Feed.Timeout})
	}
	return src, fetcher, client
}
