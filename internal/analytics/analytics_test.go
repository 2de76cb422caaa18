package analytics

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	events []string
	params []map[string]string
}

func (r *recordSink) LogEvent(event string, params map[string]string) {
	r.events = append(r.events, event)
	r.params = append(r.params, params)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "md", Extension("notes.md"))
	assert.Equal(t, "gz", Extension("a.tar.gz"))
	assert.Equal(t, "unknown", Extension("README"))
	assert.Equal(t, "", Extension("trailing."))
}

func TestTrackerHelpers(t *testing.T) {
	rec := &recordSink{}
	tr := NewTracker(rec)

	tr.FileOpened("guide.markdown", "file_picker")
	tr.URLOpened("https://a.b/c.md")
	tr.MermaidFullscreen()
	tr.RecentOpened("guide.markdown")
	tr.AboutShown()
	tr.FileClosed()
	tr.Error("fetch", "boom")

	assert.Equal(t, []string{
		EventFileOpened, EventURLOpened, EventMermaidFullscreen, EventRecentFileOpened,
		EventAboutShown, EventFileClosed, EventErrorOccurred,
	}, rec.events)
	assert.Equal(t, map[string]string{
		ParamFileName: "guide.markdown", ParamFileExtension: "markdown", ParamSource: "file_picker",
	}, rec.params[0])
	assert.Equal(t, "boom", rec.params[6][ParamErrorMessage])
}

func TestTrackerTruncatesParams(t *testing.T) {
	rec := &recordSink{}
	NewTracker(rec).URLOpened("https://example.com/" + strings.Repeat("é", 200))

	require.Len(t, rec.params, 1)
	assert.Equal(t, 100, len([]rune(rec.params[0][ParamURL])))
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() { tr.FileClosed() })
	assert.NotPanics(t, func() { NewTracker(nil).AboutShown() })
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Log: log.New(&buf, "", 0)}
	sink.LogEvent(EventFileOpened, map[string]string{ParamSource: "cli", ParamFileName: "my notes.md"})
	assert.Equal(t, "event=file_opened file_name=\"my notes.md\" source=cli\n", buf.String())
}

func TestPromSink(t *testing.T) {
	s := NewPromSink()
	tr := NewTracker(Multi{s, Nop{}})
	tr.URLOpened("https://x")
	tr.URLOpened("https://y")
	tr.Error("io", "nope")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.events.WithLabelValues(EventURLOpened)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.errors.WithLabelValues("io")))

	n, err := testutil.GatherAndCount(s.Registry, "mdviewer_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
