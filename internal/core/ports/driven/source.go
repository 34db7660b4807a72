package driven

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// DocumentSource provides development plan documents from some backing
// location (local filesystem, Google Drive).
//
// Paths returned in FileInfo are opaque to core services; only the source
// that produced them needs to understand them.
type DocumentSource interface {
	// ListCandidates returns all documents the source considers
	// development plans.
	ListCandidates(ctx context.Context) ([]domain.FileInfo, error)

	// ListRecent returns candidates modified at or after the given time.
	ListRecent(ctx context.Context, since time.Time) ([]domain.FileInfo, error)

	// Open returns the raw content of a document for fingerprinting.
	// The caller must close the reader.
	Open(ctx context.Context, info domain.FileInfo) (io.ReadCloser, error)

	// Parse extracts structured text from a document.
	// Returns domain.ErrUnsupportedFormat for formats the source cannot read.
	Parse(ctx context.Context, info domain.FileInfo) (*domain.ParsedDocument, error)

	// Close releases any resources held by the source.
	Close() error
}

// DocumentWatcher is an optional extension of DocumentSource for sources
// that can report changes as they happen.
type DocumentWatcher interface {
	// Watch emits a FileInfo whenever a candidate document is created or
	// modified. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.FileInfo, error)
}
