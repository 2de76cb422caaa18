package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdviewer/internal/server"
	"github.com/mithrel/mdviewer/internal/source"
)

func newServeCmd() *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "serve <file|url|->",
		Short: "Serve an HTML preview with live mermaid diagrams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, map[string]string{
				"addr":  "server.addr",
				"theme": "render.theme",
			})
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps := app.ViewerDeps(cmd.InOrStdin())
			via := "cli"
			if args[0] == source.StdinTarget {
				via = "stdin"
			}
			doc, err := deps.Open(ctx, args[0], via)
			if err != nil {
				return err
			}

			cfg := server.Config{
				Recent:    app.Recent,
				Loader:    deps.Loader,
				Tracker:   app.Analytics,
				Log:       app.Log,
				Theme:     app.Cfg.GetString("render.theme"),
				MermaidJS: app.Cfg.GetString("render.mermaid_js"),
			}
			if app.Prom != nil {
				cfg.Metrics = app.Prom.Registry
			}
			srv := server.New(cfg, doc)

			if !noWatch {
				go func() {
					if err := srv.Watch(ctx); err != nil && !errors.Is(err, server.ErrNotWatchable) {
						app.Log.Printf("watch: %v", err)
					}
				}()
			}

			addr := app.Cfg.GetString("server.addr")
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", doc.Source.Title(), addr)
			err = srv.ListenAndServe(ctx, addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("theme", "", "page theme: light or dark")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the file changes")
	return cmd
}
