package wire

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/mdviewer/internal/analytics"
	"github.com/mithrel/mdviewer/internal/config"
	"github.com/mithrel/mdviewer/internal/kv"
	"github.com/mithrel/mdviewer/internal/recent"
	"github.com/mithrel/mdviewer/internal/render"
	"github.com/mithrel/mdviewer/internal/source"
	"github.com/mithrel/mdviewer/internal/viewer"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       *viper.Viper
	Log       *log.Logger
	KV        kv.Store
	Recent    *recent.Store
	Fetcher   *source.Fetcher
	Analytics *analytics.Tracker
	// Prom is nil unless analytics.sink includes prometheus.
	Prom *analytics.PromSink

	closer io.Closer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logOut := io.Discard
	if v.GetBool("log.verbose") {
		logOut = os.Stderr
	}
	logger := log.New(logOut, "mdviewer ", log.LstdFlags)

	url, err := config.ResolveStorageURL(v)
	if err != nil {
		return nil, err
	}
	store, closer, err := kv.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open storage %s: %w", url, err)
	}
	logger.Printf("storage: %s", url)

	timeout, err := time.ParseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		timeout = source.DefaultTimeout
	}

	app := &App{
		Cfg:     v,
		Log:     logger,
		KV:      store,
		Recent:  recent.New(store),
		Fetcher: source.NewFetcher(timeout, v.GetInt64("fetch.max_bytes")),
		closer:  closer,
	}
	app.Analytics = analytics.NewTracker(app.buildSink())
	return app, nil
}

func (a *App) buildSink() analytics.Sink {
	if !a.Cfg.GetBool("analytics.enabled") {
		return analytics.Nop{}
	}
	logSink := analytics.LogSink{Log: a.Log}
	switch strings.ToLower(a.Cfg.GetString("analytics.sink")) {
	case "none":
		return analytics.Nop{}
	case "prometheus":
		a.Prom = analytics.NewPromSink()
		return a.Prom
	case "both":
		a.Prom = analytics.NewPromSink()
		return analytics.Multi{logSink, a.Prom}
	default:
		return logSink
	}
}

// Loader reads documents with the configured limits; stdin may be nil.
func (a *App) Loader(stdin io.Reader) *source.Loader {
	return &source.Loader{Fetcher: a.Fetcher, Stdin: stdin, MaxBytes: a.Fetcher.MaxBytes}
}

// TerminalOptions are the glamour settings from render.*.
func (a *App) TerminalOptions() render.TerminalOptions {
	return render.TerminalOptions{
		Style:    a.Cfg.GetString("render.style"),
		WordWrap: a.Cfg.GetInt("render.word_wrap"),
		Hint:     "run `mdviewer serve` to view them",
	}
}

// ViewerDeps bundles what the viewer and open commands need.
func (a *App) ViewerDeps(stdin io.Reader) viewer.Deps {
	return viewer.Deps{
		Recent:  a.Recent,
		Loader:  a.Loader(stdin),
		Tracker: a.Analytics,
		Render:  a.TerminalOptions(),
		Log:     a.Log,
	}
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
