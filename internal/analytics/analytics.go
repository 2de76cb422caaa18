// Package analytics records usage events to a pluggable sink.
package analytics

import (
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	EventFileOpened        = "file_opened"
	EventURLOpened         = "url_opened"
	EventMermaidFullscreen = "mermaid_fullscreen"
	EventRecentFileOpened  = "recent_file_opened"
	EventAboutShown        = "about_shown"
	EventFileClosed        = "file_closed"
	EventErrorOccurred     = "error_occurred"
)

const (
	ParamFileName      = "file_name"
	ParamFileExtension = "file_extension"
	ParamSource        = "source"
	ParamURL           = "url"
	ParamErrorMessage  = "error_message"
	ParamErrorType     = "error_type"
)

// maxParamLen caps every parameter value, in runes.
const maxParamLen = 100

// Sink receives events.
type Sink interface {
	LogEvent(event string, params map[string]string)
}

// Nop drops every event.
type Nop struct{}

func (Nop) LogEvent(string, map[string]string) {}

// LogSink writes one line per event to a logger.
type LogSink struct {
	Log *log.Logger
}

func (s LogSink) LogEvent(event string, params map[string]string) {
	if s.Log == nil {
		return
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("event=")
	b.WriteString(event)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(quoteIfNeeded(params[k]))
	}
	s.Log.Println(b.String())
}

func quoteIfNeeded(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\"=") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}

// PromSink counts events by name on its own registry.
type PromSink struct {
	Registry *prometheus.Registry
	events   *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

func NewPromSink() *PromSink {
	reg := prometheus.NewRegistry()
	s := &PromSink{
		Registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mdviewer",
			Name:      "events_total",
			Help:      "Usage events by name.",
		}, []string{"event"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mdviewer",
			Name:      "errors_total",
			Help:      "Errors by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(s.events, s.errors)
	return s
}

func (s *PromSink) LogEvent(event string, params map[string]string) {
	s.events.WithLabelValues(event).Inc()
	if event == EventErrorOccurred {
		s.errors.WithLabelValues(params[ParamErrorType]).Inc()
	}
}

// Multi fans an event out to several sinks.
type Multi []Sink

func (m Multi) LogEvent(event string, params map[string]string) {
	for _, s := range m {
		s.LogEvent(event, params)
	}
}

// Tracker offers typed helpers over a Sink.
type Tracker struct {
	sink Sink
}

func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = Nop{}
	}
	return &Tracker{sink: sink}
}

func (t *Tracker) LogEvent(event string, params map[string]string) {
	if t == nil {
		return
	}
	clipped := make(map[string]string, len(params))
	for k, v := range params {
		clipped[k] = truncate(v, maxParamLen)
	}
	t.sink.LogEvent(event, clipped)
}

// FileOpened records a local file (or stdin handoff) being opened.
func (t *Tracker) FileOpened(fileName, source string) {
	t.LogEvent(EventFileOpened, map[string]string{
		ParamFileName:      fileName,
		ParamFileExtension: Extension(fileName),
		ParamSource:        source,
	})
}

func (t *Tracker) URLOpened(url string) {
	t.LogEvent(EventURLOpened, map[string]string{ParamURL: url})
}

func (t *Tracker) MermaidFullscreen() {
	t.LogEvent(EventMermaidFullscreen, nil)
}

func (t *Tracker) RecentOpened(fileName string) {
	t.LogEvent(EventRecentFileOpened, map[string]string{ParamFileName: fileName})
}

func (t *Tracker) AboutShown() {
	t.LogEvent(EventAboutShown, nil)
}

func (t *Tracker) FileClosed() {
	t.LogEvent(EventFileClosed, nil)
}

func (t *Tracker) Error(errorType, message string) {
	t.LogEvent(EventErrorOccurred, map[string]string{
		ParamErrorType:    errorType,
		ParamErrorMessage: message,
	})
}

// Extension returns the text after the last '.', or "unknown".
func Extension(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 {
		return "unknown"
	}
	return fileName[i+1:]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
