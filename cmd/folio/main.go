package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - a file-based blog and portfolio engine",
		Long: `folio serves a directory of Markdown content files as a blog site and
builds the static artifacts around it: RSS and JSON feeds, a sitemap, and
social-card preview images.`,
		Version: version,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newBuildCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
