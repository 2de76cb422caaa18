package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdviewer/internal/present"
	"github.com/mithrel/mdviewer/internal/util"
	"github.com/mithrel/mdviewer/pkg/api"
)

func newRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Manage the recently opened list",
	}
	cmd.AddCommand(newRecentListCmd())
	cmd.AddCommand(newRecentRemoveCmd())
	cmd.AddCommand(newRecentClearCmd())
	cmd.AddCommand(newRecentOpenCmd())
	return cmd
}

func newRecentListCmd() *cobra.Command {
	var output, since, filter string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent files and URLs, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := present.ParseMode(output)
			if !ok {
				return fmt.Errorf("unknown output %q (plain, json, ndjson)", output)
			}
			app := getApp(cmd)
			items := app.Recent.List(cmd.Context())
			now := time.Now()
			if since != "" {
				cutoff, err := util.ParseSince(since, now)
				if err != nil {
					return err
				}
				items = util.OpenedSince(items, cutoff)
			}
			items = util.FilterRecent(filter, items)
			return present.RenderRecent(cmd.OutOrStdout(), items, present.Options{
				Mode:       mode,
				JSONIndent: true,
				Headers:    !noHeaders,
				Now:        now,
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plain", "output format: plain, json, ndjson")
	cmd.Flags().StringVar(&since, "since", "", "only items opened since (2h, 3d, 1w, 2024-01-31)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on name and path")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit the header row in plain output")
	return cmd
}

func newRecentRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path|url>",
		Aliases: []string{"rm"},
		Short:   "Remove one item; unknown paths are ignored",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Recent.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newRecentClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget every recent item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp(cmd).Recent.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared recent items")
			return nil
		},
	}
}

func newRecentOpenCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "open <n|path>",
		Short: "Reopen a recent item by its list number or path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			applyConfigFlagOverrides(cmd, app.Cfg, renderFlags)
			item, err := resolveRecent(app.Recent.List(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			deps := app.ViewerDeps(cmd.InOrStdin())
			doc, err := deps.OpenRecent(cmd.Context(), item)
			if err != nil {
				return err
			}
			return show(cmd, deps, doc, printOnly)
		},
	}
	addRenderFlags(cmd, &printOnly)
	return cmd
}

// resolveRecent finds an item by 1-based position in items or by exact path.
func resolveRecent(items []api.RecentItem, ref string) (api.RecentItem, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(items) {
			return api.RecentItem{}, fmt.Errorf("no recent item %d (have %d)", n, len(items))
		}
		return items[n-1], nil
	}
	for _, it := range items {
		if it.Path == ref {
			return it, nil
		}
	}
	return api.RecentItem{}, fmt.Errorf("%q is not in the recent list", ref)
}
