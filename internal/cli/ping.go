// internal/cli/ping.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send one keep-alive query to the catalog backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			_, _, client := sources(cfg)
			if client == nil {
				return errors.New("catalog is not configured: set catalog.url and catalog.anon_key")
			}
			if err := client.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Catalog backend answered.")
			return nil
		},
	}
}
