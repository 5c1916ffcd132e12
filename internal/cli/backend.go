package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cperrin88/assetfetch/pkg/backend"
)

// NewBackendCmd creates the backend command group.
func NewBackendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Inspect backend selection",
	}
	cmd.AddCommand(newBackendResolveCmd())
	return cmd
}

func newBackendResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve HREF...",
		Short: "Show which backend would handle each href",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, href := range args {
				kind, err := backend.ResolveKind(href, cfg.Backends)
				if err != nil {
					return fmt.Errorf("no backend for %s: %w", href, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", href, kind)
			}
			return nil
		},
	}
}
