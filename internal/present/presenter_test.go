package present

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdviewer/pkg/api"
)

var now = time.UnixMilli(1_700_000_000_000)

func sample() []api.RecentItem {
	return []api.RecentItem{
		{Type: api.KindFile, Path: "/tmp/a.md", DisplayName: "a.md", LastOpened: now.Add(-2 * time.Hour).UnixMilli()},
		{Type: api.KindURL, Path: "https://x.io/b.md", DisplayName: "b.md", LastOpened: now.Add(-72 * time.Hour).UnixMilli()},
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModePlain, "plain": ModePlain, "json": ModeJSON, "ndjson": ModeNDJSON} {
		m, ok := ParseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, m, in)
	}
	_, ok := ParseMode("tui")
	assert.False(t, ok)
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecent(&buf, sample(), Options{Mode: ModePlain, Headers: true, Now: now}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "a.md")
	assert.Contains(t, lines[1], "2 hours ago")
	assert.Contains(t, lines[2], "URL")
	assert.Contains(t, lines[2], "3 days ago")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecent(&buf, nil, Options{Mode: ModeJSON}))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderRecent(&buf, sample(), Options{Mode: ModeJSON, JSONIndent: true}))
	var got []api.RecentItem
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
}

func TestRenderNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderRecent(&buf, sample(), Options{Mode: ModeNDJSON}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"displayName":"a.md"`)
	assert.Contains(t, lines[1], `"type":"URL"`)
}
