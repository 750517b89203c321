package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadSiteConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			app := folio.New(cfg)
			if err := app.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				go func() {
					if err := app.Watch(ctx); err != nil && ctx.Err() == nil {
						slog.Error("content watcher stopped", "error", err)
					}
				}()
			}

			go func() {
				<-ctx.Done()
				if err := app.Close(); err != nil {
					slog.Error("shutdown", "error", err)
				}
			}()

			return app.Start()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "folio.yaml", "Path to the site configuration file")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address, overrides the config file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild the catalog when content files change")

	return cmd
}
