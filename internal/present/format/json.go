package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdviewer/pkg/api"
)

// WriteJSONItems writes items as one JSON array, the same shape the store persists.
func WriteJSONItems(w io.Writer, items []api.RecentItem, indent bool) error {
	if items == nil {
		items = []api.RecentItem{}
	}
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(items)
}
