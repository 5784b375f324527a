// internal/cli/gen.go
package cli

import (
	"fmt"

	"folio/internal/builder"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/feed"
	"folio/internal/radio"
	"folio/internal/task"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newGenCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a static snapshot of the site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "--- Generating site ---")
			cfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			opts := app.buildOptions()
			opts.CleanDestination = true

			tmpl, err := builder.LoadTemplates(templateDir, cfg.Template)
			if err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}
			snap, err := collect(cmd, cfg, opts, app.Logger)
			if err != nil {
				return err
			}
			if snap.CatalogErr != "" {
				fmt.Fprintf(w, "⚠️  Projects: %s\n", snap.CatalogErr)
			}

			pageCount, err := builder.BuildSite(out, staticDir, snap, builder.NewRenderer(tmpl), opts)
			if err != nil {
				return fmt.Errorf("site generation failed: %w", err)
			}
			fmt.Fprintf(w, "✅ Success! Generated %d pages with %d projects.\n", pageCount, len(snap.Projects))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", outputDir, "Output directory")
	return cmd
}

// collect loads everything a static build needs. The catalog and the feed
// are fetched concurrently; a failed fetch degrades its section instead of
// failing the build, just as it does for a visitor.
func collect(cmd *cobra.Command, cfg config.SiteConfig, opts builder.BuildOptions, logger zerolog.Logger) (builder.Snapshot, error) {
	snap := builder.Snapshot{
		Site:  cfg,
		Radio: radio.New(cfg.Radio, logger).State(),
	}
	src, fetcher, _ := sources(cfg)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		store := catalog.NewStore(src, logger)
		if store.Load(ctx) == task.Succeeded {
			snap.Projects = store.Projects()
		} else {
			snap.CatalogErr = store.View().Message
		}
		return nil
	})
	g.Go(func() error {
		loader := feed.NewLoader(fetcher, logger)
		loader.Load(ctx)
		snap.Repos = loader.View()
		return nil
	})
	g.Go(func() error {
		content, err := builder.LoadContent(contentDir, opts)
		if err != nil {
			return fmt.Errorf("failed to load content: %w", err)
		}
		snap.Content = content
		return nil
	})
	if err := g.Wait(); err != nil {
		return builder.Snapshot{}, err
	}
	return snap, nil
}
