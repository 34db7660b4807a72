// Package docsource combines the concrete document sources behind a
// single driven.DocumentSource.
package docsource

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/docsource/gdrive"
)

// Ensure Composite implements the interface.
var _ driven.DocumentSource = (*Composite)(nil)

// Composite merges a local source with an optional Drive source.
// Listings are concatenated; per-document operations are routed by the
// path prefix.
type Composite struct {
	local driven.DocumentSource
	drive driven.DocumentSource
}

// NewComposite wraps the local source and, when non-nil, the Drive source.
func NewComposite(local, drive driven.DocumentSource) *Composite {
	return &Composite{local: local, drive: drive}
}

// ListCandidates concatenates candidates from both sources.
func (c *Composite) ListCandidates(ctx context.Context) ([]domain.FileInfo, error) {
	infos, err := c.local.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if c.drive == nil {
		return infos, nil
	}

	driveInfos, err := c.drive.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	return append(infos, driveInfos...), nil
}

// ListRecent concatenates recent candidates from both sources.
func (c *Composite) ListRecent(ctx context.Context, since time.Time) ([]domain.FileInfo, error) {
	infos, err := c.local.ListRecent(ctx, since)
	if err != nil {
		return nil, err
	}
	if c.drive == nil {
		return infos, nil
	}

	driveInfos, err := c.drive.ListRecent(ctx, since)
	if err != nil {
		return nil, err
	}
	return append(infos, driveInfos...), nil
}

// Open routes to the source that owns the path.
func (c *Composite) Open(ctx context.Context, info domain.FileInfo) (io.ReadCloser, error) {
	return c.route(info).Open(ctx, info)
}

// Parse routes to the source that owns the path.
func (c *Composite) Parse(ctx context.Context, info domain.FileInfo) (*domain.ParsedDocument, error) {
	return c.route(info).Parse(ctx, info)
}

// Close closes both sources, returning the first error.
func (c *Composite) Close() error {
	err := c.local.Close()
	if c.drive != nil {
		if driveErr := c.drive.Close(); err == nil {
			err = driveErr
		}
	}
	return err
}

// route picks the owning source for a document.
func (c *Composite) route(info domain.FileInfo) driven.DocumentSource {
	if c.drive != nil && gdrive.IsDrivePath(info.Path) {
		return c.drive
	}
	return c.local
}
