// Package server is the HTML preview of the open document.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mithrel/mdviewer/internal/analytics"
	"github.com/mithrel/mdviewer/internal/recent"
	"github.com/mithrel/mdviewer/internal/render"
	"github.com/mithrel/mdviewer/internal/source"
	"github.com/mithrel/mdviewer/pkg/api"
)

// Config holds the server's collaborators. Metrics may be nil.
type Config struct {
	Recent    *recent.Store
	Loader    *source.Loader
	Tracker   *analytics.Tracker
	Metrics   prometheus.Gatherer
	Log       *log.Logger
	Theme     string
	MermaidJS string
}

// Server holds the current document and the clients waiting for reloads.
type Server struct {
	cfg Config
	hub *hub

	mu   sync.RWMutex
	doc  api.Document
	hash string
}

func New(cfg Config, doc api.Document) *Server {
	if cfg.Log == nil {
		cfg.Log = log.New(discard{}, "", 0)
	}
	s := &Server{cfg: cfg, hub: newHub()}
	s.doc, s.hash = doc, doc.Hash()
	return s
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Document returns the current document and its fingerprint.
func (s *Server) Document() (api.Document, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.hash
}

// SetDocument swaps the current document. Clients are told to reload only
// when the fingerprint changed; the return value reports whether it did.
func (s *Server) SetDocument(doc api.Document) bool {
	h := doc.Hash()
	s.mu.Lock()
	if h == s.hash {
		s.mu.Unlock()
		return false
	}
	s.doc, s.hash = doc, h
	s.mu.Unlock()
	s.hub.broadcast("reload")
	return true
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.cfg.Log, NoColor: true}))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handlePage)
	r.Get("/raw", s.handleRaw)
	r.Get("/diagram/{n}", s.handleDiagram)
	r.Get("/api/recent", s.listRecent)
	r.Delete("/api/recent", s.deleteRecent)
	r.Get("/events", s.handleEvents)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Metrics, promhttp.HandlerOpts{}))
	}
	return r
}

func diagramURL(i int) string { return "/diagram/" + strconv.Itoa(i) }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	doc, hash := s.Document()
	etag := `"` + hash + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	page, err := render.HTML([]byte(doc.Content), render.HTMLOptions{
		Title:      doc.Source.Title(),
		Theme:      s.cfg.Theme,
		MermaidJS:  s.cfg.MermaidJS,
		LiveReload: true,
		EventsURL:  "/events",
		DiagramURL: diagramURL,
	})
	if err != nil {
		s.cfg.Log.Printf("render: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	doc, hash := s.Document()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("ETag", `"`+hash+`"`)
	_, _ = w.Write([]byte(doc.Content))
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "bad diagram index", http.StatusBadRequest)
		return
	}
	doc, _ := s.Document()
	diagrams := render.Diagrams([]byte(doc.Content))
	if n < 1 || n > len(diagrams) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	d := diagrams[n-1]
	page, err := render.DiagramPage(d, fmt.Sprintf("%s · diagram %d", doc.Source.Title(), d.Index), s.cfg.Theme, s.cfg.MermaidJS, "/#diagram-"+strconv.Itoa(d.Index))
	if err != nil {
		s.cfg.Log.Printf("render diagram: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.cfg.Tracker.MermaidFullscreen()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) listRecent(w http.ResponseWriter, r *http.Request) {
	items := s.cfg.Recent.List(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

func (s *Server) deleteRecent(w http.ResponseWriter, r *http.Request) {
	var err error
	if p := r.URL.Query().Get("path"); p != "" {
		err = s.cfg.Recent.Remove(r.Context(), p)
	} else {
		err = s.cfg.Recent.Clear(r.Context())
	}
	if err != nil {
		s.cfg.Log.Printf("recent: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
