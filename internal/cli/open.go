package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdviewer/internal/render"
	"github.com/mithrel/mdviewer/internal/source"
	"github.com/mithrel/mdviewer/internal/viewer"
	"github.com/mithrel/mdviewer/pkg/api"
)

// renderFlags map open/recent flags onto render.* keys.
var renderFlags = map[string]string{
	"style": "render.style",
	"width": "render.word_wrap",
}

func addRenderFlags(cmd *cobra.Command, printOnly *bool) {
	cmd.Flags().BoolVarP(printOnly, "print", "p", false, "print rendered output instead of opening the viewer")
	cmd.Flags().String("style", "", "glamour style (auto, dark, light, dracula, notty)")
	cmd.Flags().Int("width", 0, "wrap width (0 follows the terminal)")
}

func newOpenCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open [file|url|-]",
		Short: "Open a Markdown document",
		Long:  "Open a local file, an http(s) URL, or - for stdin. Without an argument the viewer starts on the recent list.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, renderFlags)
			deps := app.ViewerDeps(cmd.InOrStdin())
			ctx := cmd.Context()

			if len(args) == 0 {
				if printOnly || !isTerminal(cmd.OutOrStdout()) {
					return fmt.Errorf("nothing to print: pass a file, url or -")
				}
				return viewer.Run(ctx, deps, nil)
			}

			via := "cli"
			if args[0] == source.StdinTarget {
				via = "stdin"
			}
			doc, err := deps.Open(ctx, args[0], via)
			if err != nil {
				return err
			}
			return show(cmd, deps, doc, printOnly)
		},
	}
	addRenderFlags(cmd, &printOnly)
	return cmd
}

// show prints doc when asked to or when stdout is not a terminal, and runs
// the viewer otherwise.
func show(cmd *cobra.Command, deps viewer.Deps, doc api.Document, printOnly bool) error {
	out := cmd.OutOrStdout()
	if printOnly || !isTerminal(out) {
		opts := deps.Render
		if opts.WordWrap <= 0 {
			opts.WordWrap = terminalWidth(out)
		}
		rendered, err := render.Terminal(doc.Content, opts)
		if err != nil {
			return err
		}
		return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
			_, err := io.WriteString(w, rendered)
			return err
		})
	}
	return viewer.Run(cmd.Context(), deps, &doc)
}
