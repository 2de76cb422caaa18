// Package source loads markdown from files, stdin, and http(s) URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mithrel/mdviewer/pkg/api"
)

const (
	DefaultMaxBytes int64 = 5 * 1024 * 1024
	DefaultTimeout        = 30 * time.Second

	// StdinName labels content handed over on stdin.
	StdinName = "stdin.md"
	// StdinTarget is the command-line target that reads stdin.
	StdinTarget = "-"
)

var (
	ErrInvalidScheme = errors.New("URL must start with https:// or http://")
	ErrTooLarge      = errors.New("file too large")
	ErrIsDirectory   = errors.New("path is a directory")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func tooLarge(max int64) error {
	return fmt.Errorf("%w (max %dMB)", ErrTooLarge, max/1024/1024)
}

// Fetcher downloads remote markdown with a size cap.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}, MaxBytes: maxBytes}
}

// IsURL reports whether target looks like an http(s) URL.
func IsURL(target string) bool {
	return strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "http://")
}

// Fetch downloads rawURL. The declared Content-Length and the bytes actually
// read are both checked against MaxBytes.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (api.Document, error) {
	if !IsURL(rawURL) {
		return api.Document{}, ErrInvalidScheme
	}
	max := f.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return api.Document{}, err
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.5")
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return api.Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return api.Document{}, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	if resp.ContentLength > max {
		return api.Document{}, tooLarge(max)
	}
	body, err := readCapped(resp.Body, max)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{Source: api.NewRemoteURL(rawURL), Content: string(body)}, nil
}

// LoadFile reads a local markdown file.
func LoadFile(path string, maxBytes int64) (api.Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return api.Document{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return api.Document{}, err
	}
	if info.IsDir() {
		return api.Document{}, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	if info.Size() > maxBytes {
		return api.Document{}, tooLarge(maxBytes)
	}
	fh, err := os.Open(abs)
	if err != nil {
		return api.Document{}, err
	}
	defer fh.Close()
	body, err := readCapped(fh, maxBytes)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{Source: api.NewLocalFile(abs, filepath.Base(abs)), Content: string(body)}, nil
}

// ReadInitial consumes content handed to the process at startup (stdin).
// The source is a LocalFile whose path and name are both name.
func ReadInitial(r io.Reader, name string, maxBytes int64) (api.Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if name == "" {
		name = StdinName
	}
	body, err := readCapped(r, maxBytes)
	if err != nil {
		return api.Document{}, err
	}
	return api.Document{Source: api.NewLocalFile(name, name), Content: string(body)}, nil
}

// Loader resolves a command-line target to a document.
type Loader struct {
	Fetcher  *Fetcher
	Stdin    io.Reader
	MaxBytes int64
}

// Open dispatches on target: "-" reads Stdin, http(s) URLs are fetched, and
// anything else is treated as a file path.
func (l *Loader) Open(ctx context.Context, target string) (api.Document, error) {
	switch {
	case target == StdinTarget:
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		return ReadInitial(in, StdinName, l.MaxBytes)
	case IsURL(target):
		f := l.Fetcher
		if f == nil {
			f = NewFetcher(0, l.MaxBytes)
		}
		return f.Fetch(ctx, target)
	default:
		return LoadFile(target, l.MaxBytes)
	}
}

// Reload re-reads the source of an existing document.
func (l *Loader) Reload(ctx context.Context, src api.ContentSource) (api.Document, error) {
	switch src.Kind {
	case api.SourceRemoteURL:
		return l.Open(ctx, src.URL)
	case api.SourceLocalFile:
		return LoadFile(src.Path, l.MaxBytes)
	default:
		return api.Document{}, errors.New("nothing to reload")
	}
}

func readCapped(r io.Reader, max int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > max {
		return nil, tooLarge(max)
	}
	return body, nil
}
