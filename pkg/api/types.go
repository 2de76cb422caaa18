package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SourceKind tags the ContentSource variant.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceLocalFile
	SourceRemoteURL
)

// ContentSource is where the markdown being viewed came from: a local file or
// a remote URL. Switch on Kind to read the variant fields.
type ContentSource struct {
	Kind SourceKind `json:"kind"`
	// LocalFile
	Path string `json:"path,omitempty"`
	Name string `json:"name,omitempty"`
	// RemoteURL
	URL string `json:"url,omitempty"`
}

func NewLocalFile(path, name string) ContentSource {
	return ContentSource{Kind: SourceLocalFile, Path: path, Name: name}
}

func NewRemoteURL(url string) ContentSource {
	return ContentSource{Kind: SourceRemoteURL, URL: url}
}

// DisplayName returns the last path segment of a remote URL, or the whole URL
// when that segment is empty. Local files return their name.
func (s ContentSource) DisplayName() string {
	switch s.Kind {
	case SourceLocalFile:
		return s.Name
	case SourceRemoteURL:
		return URLDisplayName(s.URL)
	default:
		return ""
	}
}

// Title is the label shown above the document.
func (s ContentSource) Title() string {
	if s.Kind == SourceNone {
		return "Markdown Viewer"
	}
	return s.DisplayName()
}

// Identity is the recent-list key for the source.
func (s ContentSource) Identity() string {
	switch s.Kind {
	case SourceLocalFile:
		return s.Path
	case SourceRemoteURL:
		return s.URL
	default:
		return ""
	}
}

// URLDisplayName derives a label from a URL: text after the last '/', or the
// URL itself if there is none.
func URLDisplayName(url string) string {
	seg := url[strings.LastIndex(url, "/")+1:]
	if seg == "" {
		return url
	}
	return seg
}

// ItemKind is the persisted kind of a RecentItem.
type ItemKind string

const (
	KindFile ItemKind = "FILE"
	KindURL  ItemKind = "URL"
)

// ErrInvalidRecentItem is returned when a persisted record does not match the
// RecentItem schema.
var ErrInvalidRecentItem = errors.New("invalid recent item")

// UnmarshalJSON accepts only FILE and URL.
func (k *ItemKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch ItemKind(s) {
	case KindFile, KindURL:
		*k = ItemKind(s)
		return nil
	}
	return fmt.Errorf("%w: unknown type %q", ErrInvalidRecentItem, s)
}

// RecentItem is a persisted record of a previously opened source.
type RecentItem struct {
	// Type is the item kind. It is stored under "type", not "kind".
	Type        ItemKind `json:"type"`
	Path        string   `json:"path"`
	DisplayName string   `json:"displayName"`
	LastOpened  int64    `json:"lastOpened"` // unix ms
}

// UnmarshalJSON requires every field to be present. Unknown fields are
// ignored.
func (r *RecentItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type        *ItemKind `json:"type"`
		Path        *string   `json:"path"`
		DisplayName *string   `json:"displayName"`
		LastOpened  *int64    `json:"lastOpened"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Type == nil || raw.Path == nil || raw.DisplayName == nil || raw.LastOpened == nil {
		return fmt.Errorf("%w: missing field", ErrInvalidRecentItem)
	}
	*r = RecentItem{Type: *raw.Type, Path: *raw.Path, DisplayName: *raw.DisplayName, LastOpened: *raw.LastOpened}
	return nil
}

// OpenedAt converts LastOpened to a time.Time.
func (r RecentItem) OpenedAt() time.Time {
	return time.UnixMilli(r.LastOpened)
}

// Source rebuilds the ContentSource the item was recorded from.
func (r RecentItem) Source() ContentSource {
	if r.Type == KindURL {
		return NewRemoteURL(r.Path)
	}
	return NewLocalFile(r.Path, r.DisplayName)
}

// RecentItemFromSource maps a source to the record stored in the recent list.
func RecentItemFromSource(src ContentSource, now time.Time) RecentItem {
	ms := now.UnixMilli()
	switch src.Kind {
	case SourceRemoteURL:
		return RecentItem{Type: KindURL, Path: src.URL, DisplayName: URLDisplayName(src.URL), LastOpened: ms}
	default:
		return RecentItem{Type: KindFile, Path: src.Path, DisplayName: src.Name, LastOpened: ms}
	}
}

// Document is markdown content that was loaded successfully.
type Document struct {
	Source  ContentSource `json:"source"`
	Content string        `json:"content"`
}

func (d Document) HasContent() bool {
	return d.Content != "" && d.Source.Kind != SourceNone
}
