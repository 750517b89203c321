package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

func newBuildCommand() *cobra.Command {
	var configPath string
	var outDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build static feed and sitemap artifacts",
		Long: `Validates all content files, builds the post catalog, and writes
rss/feed.xml, rss/feed.json, and sitemap.xml into the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadSiteConfig(configPath)
			if err != nil {
				return err
			}

			cat, skipped, err := folio.BuildCatalog(os.DirFS(cfg.ContentDir), folio.CatalogOptions{})
			if err != nil {
				return fmt.Errorf("build catalog: %w", err)
			}
			for _, serr := range skipped {
				slog.Warn("content file excluded from catalog", "error", serr)
			}

			components := markdown.DefaultComponents()
			if err := folio.WriteFeeds(cat, cfg, components, outDir); err != nil {
				return err
			}
			sitemap, err := folio.GenerateSitemap(cat, cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(outDir, "sitemap.xml"), sitemap, 0o644); err != nil {
				return fmt.Errorf("write sitemap: %w", err)
			}

			fmt.Printf("built %d posts (%d skipped) into %s\n", cat.Len(), len(skipped), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "folio.yaml", "Path to the site configuration file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "public", "Output directory for generated artifacts")

	return cmd
}
