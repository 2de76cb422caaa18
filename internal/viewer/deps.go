package viewer

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/mithrel/mdviewer/internal/analytics"
	"github.com/mithrel/mdviewer/internal/recent"
	"github.com/mithrel/mdviewer/internal/render"
	"github.com/mithrel/mdviewer/internal/source"
	"github.com/mithrel/mdviewer/pkg/api"
)

// Deps are the collaborators the viewer and the CLI share when a document is
// opened. The zero value of every field except Recent and Loader is usable.
type Deps struct {
	Recent  *recent.Store
	Loader  *source.Loader
	Tracker *analytics.Tracker
	Render  render.TerminalOptions
	Log     *log.Logger
}

func (d Deps) logf(format string, args ...any) {
	if d.Log != nil {
		d.Log.Printf(format, args...)
	}
}

// Record bumps doc's source in the recent list and reports the open.
// A failed write is logged; the document stays open.
func (d Deps) Record(ctx context.Context, doc api.Document, via string) {
	if err := d.Recent.Touch(ctx, doc.Source); err != nil {
		d.logf("recent: %v", err)
	}
	d.report(doc, via)
}

func (d Deps) report(doc api.Document, via string) {
	switch doc.Source.Kind {
	case api.SourceRemoteURL:
		d.Tracker.URLOpened(doc.Source.URL)
	case api.SourceLocalFile:
		d.Tracker.FileOpened(doc.Source.Name, via)
	}
}

// Open loads target and records it on success. Stdin content has no path to
// reopen, so it is reported but kept out of the recent list.
func (d Deps) Open(ctx context.Context, target, via string) (api.Document, error) {
	doc, err := d.Loader.Open(ctx, target)
	if err != nil {
		d.Tracker.Error(ErrorType(err), err.Error())
		return api.Document{}, err
	}
	if target == source.StdinTarget {
		d.report(doc, via)
		return doc, nil
	}
	d.Record(ctx, doc, via)
	return doc, nil
}

// OpenRecent reopens a recent item. URLs are fetched again and files re-read.
// A file that can no longer be read still has its timestamp bumped.
func (d Deps) OpenRecent(ctx context.Context, item api.RecentItem) (api.Document, error) {
	src := item.Source()
	doc, err := d.Loader.Reload(ctx, src)
	if err != nil {
		if src.Kind == api.SourceLocalFile {
			if terr := d.Recent.Touch(ctx, src); terr != nil {
				d.logf("recent: %v", terr)
			}
		}
		d.Tracker.Error(ErrorType(err), err.Error())
		return api.Document{}, err
	}
	if err := d.Recent.Touch(ctx, src); err != nil {
		d.logf("recent: %v", err)
	}
	d.Tracker.RecentOpened(item.DisplayName)
	return doc, nil
}

// ErrorType classifies a load error for the error_occurred event.
func ErrorType(err error) string {
	var se *source.StatusError
	switch {
	case errors.Is(err, source.ErrInvalidScheme):
		return "invalid_url"
	case errors.Is(err, source.ErrTooLarge):
		return "too_large"
	case errors.Is(err, source.ErrIsDirectory):
		return "is_directory"
	case errors.As(err, &se):
		return "http_status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "truncated"
	default:
		return "load_failed"
	}
}
