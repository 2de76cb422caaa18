package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdviewer/pkg/api"
)

// WriteNDJSONItems writes items as newline-delimited JSON objects.
func WriteNDJSONItems(w io.Writer, items []api.RecentItem) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
