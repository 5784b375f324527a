// internal/cli/new.go
package cli

import (
	"fmt"

	"folio/internal/scaffold"

	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a site or a page",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "site <name>",
		Short: "Scaffold a new site in a new directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.CreateNewSite(args[0], cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "page <title>",
		Short: "Create a standalone content page from the archetype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.siteConfig()
			if err != nil {
				return err
			}
			path, err := scaffold.CreateNewPage(".", args[0], cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created:", path)
			return nil
		},
	})
	return cmd
}
