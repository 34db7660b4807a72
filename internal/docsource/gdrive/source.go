// Package gdrive provides a document source backed by a Google Drive
// folder. Files are streamed through the Drive API; Google Docs are
// exported as plain text.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/docsource/docparse"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// PathPrefix marks Drive-backed document paths.
const PathPrefix = "gdrive://"

// listPageSize is the Drive page size for file listings.
const listPageSize = 100

// Drive MIME types the parser can handle. PDF and legacy .doc files are
// deliberately not listed: the parser rejects them, so enqueueing them
// would only produce a permanent error on every run.
const (
	MimeDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeGoogleDoc = "application/vnd.google-apps.document"
)

// extensionForMime maps Drive MIME types to the extension the parser
// understands. Google Docs are exported as plain text, hence .txt.
var extensionForMime = map[string]string{
	MimeDocx:      ".docx",
	MimeGoogleDoc: ".txt",
}

// Source reads development plans from a Google Drive folder.
type Source struct {
	svc      *drive.Service
	folderID string
	limiter  *RateLimiter
	parser   *docparse.Parser
}

// NewSource authenticates against the Drive API using the cached OAuth
// token and returns a source scoped to cfg.FolderID. A missing token or
// credentials file maps to domain.ErrNotConfigured.
func NewSource(ctx context.Context, cfg domain.DriveConfig, parser *docparse.Parser) (*Source, error) {
	if cfg.TokenPath == "" {
		cfg.TokenPath = "token.json"
	}
	if cfg.CredentialsPath == "" {
		cfg.CredentialsPath = "credentials.json"
	}

	conf, err := oauthConfig(cfg)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return newSourceWithService(svc, cfg.FolderID, parser), nil
}

// newSourceWithService wires a source around an existing Drive service.
func newSourceWithService(svc *drive.Service, folderID string, parser *docparse.Parser) *Source {
	return &Source{
		svc:      svc,
		folderID: folderID,
		limiter:  NewRateLimiter(),
		parser:   parser,
	}
}

// FileID extracts the Drive file ID from a gdrive:// path.
func FileID(path string) string {
	return strings.TrimPrefix(path, PathPrefix)
}

// IsDrivePath reports whether the path belongs to this source.
func IsDrivePath(path string) bool {
	return strings.HasPrefix(path, PathPrefix)
}

// ListCandidates returns every supported document in the folder.
func (s *Source) ListCandidates(ctx context.Context) ([]domain.FileInfo, error) {
	return s.list(ctx, s.listQuery(time.Time{}))
}

// ListRecent returns documents modified at or after since.
func (s *Source) ListRecent(ctx context.Context, since time.Time) ([]domain.FileInfo, error) {
	return s.list(ctx, s.listQuery(since))
}

// listQuery builds the Drive search expression.
func (s *Source) listQuery(since time.Time) string {
	mimes := []string{MimeDocx, MimeGoogleDoc}
	parts := make([]string, len(mimes))
	for i, mime := range mimes {
		parts[i] = fmt.Sprintf("mimeType='%s'", mime)
	}

	query := "(" + strings.Join(parts, " or ") + ") and trashed=false"
	if s.folderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", s.folderID)
	}
	if !since.IsZero() {
		query += fmt.Sprintf(" and modifiedTime >= '%s'", since.UTC().Format(time.RFC3339))
	}
	return query
}

// list pages through the Drive file listing.
func (s *Source) list(ctx context.Context, query string) ([]domain.FileInfo, error) {
	var infos []domain.FileInfo
	pageToken := ""

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.svc.Files.List().
			Q(query).
			PageSize(listPageSize).
			Fields("nextPageToken, files(id, name, size, modifiedTime, mimeType)").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			s.recordIfRateLimited(err)
			return nil, fmt.Errorf("listing drive files: %w", err)
		}

		for _, file := range result.Files {
			info, err := fileToInfo(file)
			if err != nil {
				logger.Warn("Skipping drive file %s: %v", file.Name, err)
				continue
			}
			infos = append(infos, info)
		}

		pageToken = result.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return infos, nil
}

// fileToInfo converts a Drive file to a FileInfo.
func fileToInfo(file *drive.File) (domain.FileInfo, error) {
	ext, ok := extensionForMime[file.MimeType]
	if !ok {
		return domain.FileInfo{}, fmt.Errorf("mime type %s: %w", file.MimeType, domain.ErrUnsupportedFormat)
	}

	modified, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		return domain.FileInfo{}, fmt.Errorf("parsing modifiedTime %q: %w", file.ModifiedTime, err)
	}

	return domain.FileInfo{
		Path:         PathPrefix + file.Id,
		EmployeeName: docparse.ExtractEmployeeName(file.Name),
		Size:         file.Size,
		Modified:     modified,
		Extension:    ext,
	}, nil
}

// Open streams the document content. Google Docs (.txt extension) are
// exported as plain text; everything else is downloaded as stored.
func (s *Source) Open(ctx context.Context, info domain.FileInfo) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	id := FileID(info.Path)

	var resp *http.Response
	var err error
	if info.Extension == ".txt" {
		resp, err = s.svc.Files.Export(id, "text/plain").Context(ctx).Download()
	} else {
		resp, err = s.svc.Files.Get(id).Context(ctx).Download()
	}
	if err != nil {
		s.recordIfRateLimited(err)
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", info.Path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("downloading %s: %w", info.Path, err)
	}

	return resp.Body, nil
}

// Parse downloads and parses the document.
func (s *Source) Parse(ctx context.Context, info domain.FileInfo) (*domain.ParsedDocument, error) {
	rc, err := s.Open(ctx, info)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return s.parser.Parse(rc, info)
}

// Close releases resources. The Drive client holds none worth closing.
func (s *Source) Close() error {
	return nil
}

// recordIfRateLimited feeds 429 responses into the limiter backoff.
func (s *Source) recordIfRateLimited(err error) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		retryAfter := 0
		if v := apiErr.Header.Get("Retry-After"); v != "" {
			retryAfter, _ = strconv.Atoi(v)
		}
		s.limiter.RecordRateLimitError(retryAfter)
	}
}
