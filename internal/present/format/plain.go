package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mithrel/mdviewer/pkg/api"
)

var headerLine = "#\ttype\tname\topened\tpath\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// WritePlainItems writes a 1-based numbered table. Opened times are relative to now.
func WritePlainItems(w io.Writer, items []api.RecentItem, headers bool, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for i, it := range items {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\n",
			i+1, it.Type, esc(it.DisplayName), humanize.RelTime(it.OpenedAt(), now, "ago", "from now"), esc(it.Path))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
