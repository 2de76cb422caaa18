package present

import (
	"io"
	"time"

	"github.com/mithrel/mdviewer/internal/present/format"
	"github.com/mithrel/mdviewer/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Now        time.Time
}

// ParseMode parses "plain", "json" or "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain", "":
		return ModePlain, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// RenderRecent renders the recent list according to options.
func RenderRecent(w io.Writer, items []api.RecentItem, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONItems(w, items, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONItems(w, items)
	default:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		return format.WritePlainItems(w, items, opts.Headers, now)
	}
}
