package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/mdviewer/pkg/api"
)

type recentSource []api.RecentItem

func (r recentSource) String(i int) string { return r[i].DisplayName + " " + r[i].Path }
func (r recentSource) Len() int            { return len(r) }

// FilterRecent fuzzy-matches query against each item's display name and path.
// Matches come back best first; an empty query returns items unchanged.
func FilterRecent(query string, items []api.RecentItem) []api.RecentItem {
	if query == "" {
		return items
	}
	matches := fuzzy.FindFrom(query, recentSource(items))
	out := make([]api.RecentItem, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return out
}
