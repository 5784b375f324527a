// internal/cli/serve.go
package cli

import (
	"os/signal"
	"strings"
	"syscall"

	"folio/internal/metrics"
	"folio/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var port int
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with one session per visitor",
		Example: strings.TrimSpace(`
folio serve --port 8080
folio serve --watch
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			src, fetcher, client := sources(cfg)
			deps := server.Deps{
				Source:  src,
				Fetcher: fetcher,
				Metrics: metrics.New(),
				Logger:  app.Logger,
			}
			if client != nil {
				deps.Pinger = client
			} else {
				app.Logger.Warn().Msg("catalog is not configured, the projects section will stay empty")
			}

			srv, err := server.New(server.Options{
				Site:        cfg,
				TemplateDir: templateDir,
				ContentDir:  contentDir,
				StaticDir:   staticDir,
				Build:       app.buildOptions(),
				Watch:       watch,
			}, deps)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default from site.yaml, else 1313)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload templates and content on change and refresh open pages")
	return cmd
}
