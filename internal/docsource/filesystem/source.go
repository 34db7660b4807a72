// Package filesystem provides a document source backed by a local
// directory of development plan files.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/docsource/docparse"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.DocumentSource  = (*Source)(nil)
	_ driven.DocumentWatcher = (*Source)(nil)
)

// Source reads development plans from a local directory tree.
type Source struct {
	dir        string
	extensions map[string]bool
	parser     *docparse.Parser
}

// New creates a filesystem source rooted at cfg.Directory.
func New(cfg domain.DocsConfig, parser *docparse.Parser) *Source {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Source{
		dir:        cfg.Directory,
		extensions: exts,
		parser:     parser,
	}
}

// ListCandidates walks the directory tree and returns every file with a
// configured extension. A missing directory yields an empty list, not an
// error, so a fresh installation can run before any plans exist.
func (s *Source) ListCandidates(ctx context.Context) ([]domain.FileInfo, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		logger.Warn("Documents directory does not exist: %s", s.dir)
		return nil, nil
	}

	var infos []domain.FileInfo
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !s.matches(d.Name()) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logger.Warn("Could not stat %s: %v", path, err)
			return nil
		}

		infos = append(infos, domain.FileInfo{
			Path:         path,
			EmployeeName: docparse.ExtractEmployeeName(d.Name()),
			Size:         fi.Size(),
			Modified:     fi.ModTime(),
			Extension:    strings.ToLower(filepath.Ext(d.Name())),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.dir, err)
	}

	return infos, nil
}

// ListRecent returns candidates modified at or after since.
func (s *Source) ListRecent(ctx context.Context, since time.Time) ([]domain.FileInfo, error) {
	all, err := s.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	var recent []domain.FileInfo
	for _, info := range all {
		if !info.Modified.Before(since) {
			recent = append(recent, info)
		}
	}
	return recent, nil
}

// Open returns the raw file content.
func (s *Source) Open(_ context.Context, info domain.FileInfo) (io.ReadCloser, error) {
	f, err := os.Open(info.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", info.Path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("opening %s: %w", info.Path, err)
	}
	return f, nil
}

// Parse extracts structured text from the file.
func (s *Source) Parse(ctx context.Context, info domain.FileInfo) (*domain.ParsedDocument, error) {
	f, err := s.Open(ctx, info)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.parser.Parse(f, info)
}

// Watch emits a FileInfo whenever a candidate file is created or written.
// The watcher covers the root directory and its current subdirectories;
// directories created later are added as they appear.
func (s *Source) Watch(ctx context.Context) (<-chan domain.FileInfo, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	events := make(chan domain.FileInfo)
	go s.watchLoop(ctx, watcher, events)
	return events, nil
}

// watchLoop forwards create and write events until ctx is cancelled.
func (s *Source) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, events chan<- domain.FileInfo) {
	defer close(events)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			fi, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if fi.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("Could not watch %s: %v", event.Name, err)
					}
				}
				continue
			}
			if !s.matches(filepath.Base(event.Name)) {
				continue
			}

			info := domain.FileInfo{
				Path:         event.Name,
				EmployeeName: docparse.ExtractEmployeeName(filepath.Base(event.Name)),
				Size:         fi.Size(),
				Modified:     fi.ModTime(),
				Extension:    strings.ToLower(filepath.Ext(event.Name)),
			}

			select {
			case events <- info:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// Close releases resources. The filesystem source holds none.
func (s *Source) Close() error {
	return nil
}

// matches reports whether the file name has a configured extension.
// Office lock files (~$…) are never candidates.
func (s *Source) matches(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	return s.extensions[strings.ToLower(filepath.Ext(name))]
}
