package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://a.b/c/d.md", "d.md"},
		{"https://a.b/", "https://a.b/"},
		{"https://a.b", "a.b"},
		{"readme", "readme"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, URLDisplayName(tc.in), tc.in)
	}
}

func TestRecentItemFromSource(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)

	file := RecentItemFromSource(NewLocalFile("/tmp/x/notes.md", "notes.md"), now)
	assert.Equal(t, RecentItem{Type: KindFile, Path: "/tmp/x/notes.md", DisplayName: "notes.md", LastOpened: 1_700_000_000_123}, file)

	url := RecentItemFromSource(NewRemoteURL("https://a.b/c/d.md"), now)
	assert.Equal(t, RecentItem{Type: KindURL, Path: "https://a.b/c/d.md", DisplayName: "d.md", LastOpened: 1_700_000_000_123}, url)

	root := RecentItemFromSource(NewRemoteURL("https://a.b/"), now)
	assert.Equal(t, "https://a.b/", root.DisplayName)
}

func TestRecentItemJSONFieldNames(t *testing.T) {
	raw := `{"type":"URL","path":"https://x.y/z.md","displayName":"z.md","lastOpened":42,"pinned":true}`
	var it RecentItem
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	assert.Equal(t, KindURL, it.Type)
	assert.Equal(t, int64(42), it.LastOpened)
	assert.Equal(t, NewRemoteURL("https://x.y/z.md"), it.Source())
}

func TestContentSourceTitle(t *testing.T) {
	assert.Equal(t, "Markdown Viewer", ContentSource{}.Title())
	assert.Equal(t, "a.md", NewLocalFile("/p/a.md", "a.md").Title())
	assert.Equal(t, "d.md", NewRemoteURL("https://a.b/c/d.md").Title())
}

func TestDocumentHasContent(t *testing.T) {
	assert.False(t, Document{Content: "x"}.HasContent())
	assert.False(t, Document{Source: NewLocalFile("a", "a")}.HasContent())
	assert.True(t, Document{Source: NewLocalFile("a", "a"), Content: "x"}.HasContent())
}

func TestRecentItemDecodeRequiresSchema(t *testing.T) {
	var it RecentItem
	require.NoError(t, json.Unmarshal([]byte(`{"type":"URL","path":"https://a.b/c.md","displayName":"c.md","lastOpened":5,"extra":1}`), &it))
	assert.Equal(t, RecentItem{Type: KindURL, Path: "https://a.b/c.md", DisplayName: "c.md", LastOpened: 5}, it)

	for _, raw := range []string{
		`{"path":"x"}`,
		`{"type":"BOGUS","path":"x","displayName":"x","lastOpened":1}`,
		`{"type":"FILE","displayName":"x","lastOpened":1}`,
		`{"type":"FILE","path":"x","lastOpened":1}`,
		`{"type":"FILE","path":"x","displayName":"x"}`,
	} {
		var got RecentItem
		assert.ErrorIs(t, json.Unmarshal([]byte(raw), &got), ErrInvalidRecentItem, raw)
	}
}
