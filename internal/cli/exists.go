package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cperrin88/assetfetch/pkg/download"
	"github.com/cperrin88/assetfetch/pkg/manifest"
)

// NewExistsCmd creates the exists command.
func NewExistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists MANIFEST [KEY...]",
		Short: "Probe whether a manifest's assets are reachable",
		Long: `Check each named asset of a manifest without downloading it. With no
keys, every asset is probed. Exits non-zero when any asset is missing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runExists(cmd, args[0], args[1:], cfg)
		},
	}
	return cmd
}

func runExists(cmd *cobra.Command, manifestPath string, keys []string, cfg download.Config) error {
	owner, err := manifest.ReadFile(manifestPath)
	if err != nil {
		return err
	}
	if owner.BaseHref() == "" {
		abs, absErr := filepath.Abs(manifestPath)
		if absErr != nil {
			return absErr
		}
		owner.SetBaseHref(abs)
	}
	if len(keys) == 0 {
		keys = owner.AssetKeys()
	}

	mgr, err := download.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	missing := 0
	for _, key := range keys {
		exists, err := mgr.AssetExists(cmd.Context(), owner, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %t\n", key, exists)
		if !exists {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d assets are not reachable", missing, len(keys))
	}
	return nil
}
