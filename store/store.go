// Package store keeps imported documents: the original binary plus the
// import products, keyed by generated document id. Entries never expire,
// the owner releases them explicitly.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested document id is not present.
var ErrNotFound = errors.New("store: document not found")

// Metadata describes one imported document. Created once at import time,
// immutable afterward.
type Metadata struct {
	FileName       string
	UploadedAt     time.Time
	OriginalSize   int64
	HasImages      bool
	DetectedStyles []string
}

// Record is one stored document.
type Record struct {
	ID       string
	Meta     Metadata
	Original []byte
	HTML     string
	Text     string
}

// Entry is one listing row, metadata only.
type Entry struct {
	ID   string
	Meta Metadata
}

// Store is the document store contract. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores or replaces a record under its id.
	Put(ctx context.Context, rec *Record) error
	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Delete releases one document. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// Clear releases everything.
	Clear(ctx context.Context) error
	// List returns entries ordered naturally by file name.
	List(ctx context.Context) ([]Entry, error)
	Close() error
}
