package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdviewer/internal/render"
)

func newDiagramsCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "diagrams <file|url|->",
		Short: "List the mermaid diagrams in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			doc, err := app.Loader(cmd.InOrStdin()).Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			diagrams := render.Diagrams([]byte(doc.Content))
			out := cmd.OutOrStdout()
			if index > 0 {
				if index > len(diagrams) {
					return fmt.Errorf("no diagram %d (document has %d)", index, len(diagrams))
				}
				fmt.Fprintln(out, diagrams[index-1].Code)
				return nil
			}
			if len(diagrams) == 0 {
				fmt.Fprintln(out, "No mermaid diagrams")
				return nil
			}
			for _, d := range diagrams {
				first, _, _ := strings.Cut(d.Code, "\n")
				fmt.Fprintf(out, "%d\t%s\n", d.Index, strings.TrimSpace(first))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&index, "index", "n", 0, "print the source of diagram n")
	return cmd
}
