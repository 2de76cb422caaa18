package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set with -ldflags "-X github.com/mithrel/mdviewer/internal/cli.version=..."
var version = ""

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "Show version and storage details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			app.Analytics.AboutShown()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mdviewer %s\n", buildVersion())
			fmt.Fprintln(out, "Markdown viewer with mermaid diagram support.")
			if used := app.Cfg.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "config:  %s\n", used)
			}
			fmt.Fprintf(out, "storage: %s\n", app.Cfg.GetString("storage.backend"))
			fmt.Fprintf(out, "recent:  %d items\n", len(app.Recent.List(cmd.Context())))
			return nil
		},
	}
}
