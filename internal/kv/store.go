// Package kv provides the string key-value backends that persist viewer state.
package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Store is a durable string key-value capability.
//
// Get returns def when the key is absent or the backend cannot be read.
// Put replaces the whole value; readers never see a partial write.
type Store interface {
	Get(ctx context.Context, key, def string) string
	Put(ctx context.Context, key, value string) error
}

var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// Open returns a Store for a backend URL:
//
//	mem://
//	file:///path/state.json   (a bare path also selects file)
//	sqlite:///path/mdviewer.db
//	keyring://service
//	redis://[:password@]host:port/db
func Open(ctx context.Context, url string) (Store, io.Closer, error) {
	url = strings.TrimSpace(url)
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		if url == "" {
			return nil, nil, fmt.Errorf("%w: empty url", ErrUnsupportedBackend)
		}
		return openFile(url)
	}
	switch strings.ToLower(scheme) {
	case "mem", "memory":
		return NewMemStore(), nopCloser{}, nil
	case "file":
		return openFile(rest)
	case "sqlite":
		return openSQLite(ctx, rest)
	case "keyring":
		return &KeyringStore{Service: strings.Trim(rest, "/")}, nopCloser{}, nil
	case "redis", "rediss":
		return openRedis(ctx, url)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, scheme)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
