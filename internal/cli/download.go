package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cperrin88/assetfetch/internal/progress"
	"github.com/cperrin88/assetfetch/pkg/download"
	"github.com/cperrin88/assetfetch/pkg/manifest"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var (
		include     []string
		exclude     []string
		alternates  []string
		naming      string
		errorPolicy string
		concurrency int
		overwrite   bool
		failFast    bool
		keepGoing   bool
		save        string
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "download MANIFEST [DIRECTORY]",
		Short: "Download the assets of a manifest",
		Long: `Download every asset of a manifest document into a directory and print
the rewritten document, with asset hrefs pointing at the local copies,
to standard output.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 1 {
				dir = args[1]
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(include) > 0 {
				cfg.Include = include
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if len(alternates) > 0 {
				cfg.Alternates = alternates
			}
			if naming != "" {
				cfg.Naming = download.NamingStrategy(naming)
			}
			if errorPolicy != "" {
				cfg.ErrorPolicy = download.ErrorPolicy(errorPolicy)
			}
			if concurrency > 0 {
				cfg.MaxConcurrent = concurrency
			}
			if overwrite {
				cfg.Overwrite = true
			}
			if failFast {
				cfg.FailFast = true
			}
			if keepGoing {
				cfg.ErrorPolicy = download.ErrorPolicyWarnAndKeep
			}
			if save != "" {
				cfg.OwnerFileName = save
			}

			return runDownload(cmd, args[0], dir, cfg, quiet)
		},
	}

	cmd.Flags().StringArrayVarP(&include, "include", "i", nil, "Asset keys to include (repeatable)")
	cmd.Flags().StringArrayVarP(&exclude, "exclude", "x", nil, "Asset keys to exclude (repeatable)")
	cmd.Flags().StringArrayVarP(&alternates, "alternate", "a", nil, "Alternate names to prefer, in order (repeatable)")
	cmd.Flags().StringVar(&naming, "naming", "", "File name strategy (filename, key)")
	cmd.Flags().StringVar(&errorPolicy, "error-policy", "", "Failure handling (fail, warn-keep, warn-delete)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "Maximum parallel downloads (0=config default)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-download assets whose destination exists")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Cancel the batch on the first failure")
	cmd.Flags().BoolVarP(&keepGoing, "keep", "k", false, "Shorthand for --error-policy warn-keep")
	cmd.Flags().StringVarP(&save, "save", "s", "", "Also write the rewritten manifest into DIRECTORY under this name")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runDownload(cmd *cobra.Command, manifestPath, dir string, cfg download.Config, quiet bool) error {
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

	mgr, err := download.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()

	var events chan download.Event
	var reporter *progress.Reporter
	if !quiet {
		events = make(chan download.Event, 128)
		reporter = progress.NewReporter(cmd.ErrOrStderr())
		reporter.Run(events)
	}

	owner, err = mgr.DownloadOwner(cmd.Context(), owner, dir, events)
	if events != nil {
		close(events)
		reporter.Wait()
	}
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	doc, err := owner.Document()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(doc))
	return nil
}
