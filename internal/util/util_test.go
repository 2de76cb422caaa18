package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdviewer/pkg/api"
)

func TestParseTimeExpr(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"2h":         now.Add(-2 * time.Hour),
		"3d":         now.Add(-72 * time.Hour),
		"2w":         now.Add(-14 * 24 * time.Hour),
		"1mo":        now.AddDate(0, -1, 0),
		"2024-03-01": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseTimeExpr(in, now)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s want %s", in, got, want)
	}

	for _, bad := range []string{"", "xd", "yesterday"} {
		_, err := parseTimeExpr(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseSinceAndFilter(t *testing.T) {
	now := time.UnixMilli(10 * 24 * 3600 * 1000)
	cutoff, err := ParseSince("1d", now)
	require.NoError(t, err)

	items := []api.RecentItem{
		{Path: "new", LastOpened: now.UnixMilli()},
		{Path: "edge", LastOpened: cutoff.UnixMilli()},
		{Path: "old", LastOpened: now.Add(-48 * time.Hour).UnixMilli()},
	}
	got := OpenedSince(items, cutoff)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Path)
	assert.Equal(t, "edge", got[1].Path)

	_, err = ParseSince("soon", now)
	assert.ErrorContains(t, err, "invalid --since")
}

func TestFilterRecent(t *testing.T) {
	items := []api.RecentItem{
		{Path: "/docs/guide.md", DisplayName: "guide.md"},
		{Path: "https://x.io/notes.md", DisplayName: "notes.md"},
	}
	assert.Equal(t, items, FilterRecent("", items))

	got := FilterRecent("notes", items)
	require.Len(t, got, 1)
	assert.Equal(t, "notes.md", got[0].DisplayName)

	assert.Empty(t, FilterRecent("zzzz", items))
}
