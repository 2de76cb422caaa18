package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mithrel/mdviewer/pkg/api"
)

// ErrNotWatchable is returned by Watch for documents that are not local files.
var ErrNotWatchable = errors.New("document is not a local file")

// Watch reloads the current document whenever its file is written or
// replaced, until ctx is done. The parent directory is watched so editors
// that save by rename are still seen.
func (s *Server) Watch(ctx context.Context) error {
	doc, _ := s.Document()
	if doc.Source.Kind != api.SourceLocalFile || !filepath.IsAbs(doc.Source.Path) {
		return ErrNotWatchable
	}
	target := filepath.Clean(doc.Source.Path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reload(ctx, doc.Source)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.cfg.Log.Printf("watch: %v", err)
		}
	}
}

func (s *Server) reload(ctx context.Context, src api.ContentSource) {
	if s.cfg.Loader == nil {
		return
	}
	doc, err := s.cfg.Loader.Reload(ctx, src)
	if err != nil {
		// partial writes show up as short or missing files; the next event retries
		s.cfg.Log.Printf("reload %s: %v", src.Path, err)
		return
	}
	if s.SetDocument(doc) {
		s.cfg.Log.Printf("reloaded %s", src.Path)
	}
}
