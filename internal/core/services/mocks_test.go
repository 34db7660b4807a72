package services

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
)

// mockLLM implements driven.LLMService with a scripted reply.
type mockLLM struct {
	reply    string
	err      error
	lastChat []driven.ChatMessage
	calls    int
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	return m.reply, m.err
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.calls++
	m.lastChat = messages
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string           { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockStore implements driven.AnalysisStore in memory.
type mockStore struct {
	docs      map[string]*domain.DocumentRecord
	verdicts  map[string]*domain.MeetingVerdict
	items     map[string]*domain.ExtractedItemSet
	queryLogs []domain.QueryLogEntry

	saveErr error
	listErr error
}

var _ driven.AnalysisStore = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		docs:     make(map[string]*domain.DocumentRecord),
		verdicts: make(map[string]*domain.MeetingVerdict),
		items:    make(map[string]*domain.ExtractedItemSet),
	}
}

func (m *mockStore) GetDocument(_ context.Context, path string) (*domain.DocumentRecord, error) {
	doc, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockStore) SaveAnalysis(_ context.Context, doc *domain.DocumentRecord, verdict *domain.MeetingVerdict, items *domain.ExtractedItemSet) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.Path] = doc
	m.verdicts[doc.Path] = verdict
	m.items[doc.Path] = items
	return nil
}

func (m *mockStore) ListAnalyses(_ context.Context, filter driven.AnalysisFilter) ([]domain.DocumentAnalysis, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.DocumentAnalysis
	for path, doc := range m.docs {
		if !filter.Since.IsZero() && doc.AnalyzedAt.Before(filter.Since) {
			continue
		}
		if len(filter.EmployeeNames) > 0 && !nameMatches(doc.EmployeeName, filter.EmployeeNames) {
			continue
		}
		out = append(out, domain.DocumentAnalysis{
			Document: *doc,
			Verdict:  m.verdicts[path],
			Items:    m.items[path],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Document.AnalyzedAt.After(out[j].Document.AnalyzedAt)
	})
	return out, nil
}

func nameMatches(name string, needles []string) bool {
	lower := strings.ToLower(name)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func (m *mockStore) CountDocuments(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockStore) LogQuery(_ context.Context, entry *domain.QueryLogEntry) error {
	m.queryLogs = append([]domain.QueryLogEntry{*entry}, m.queryLogs...)
	return nil
}

func (m *mockStore) ListQueryLogs(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit > len(m.queryLogs) {
		limit = len(m.queryLogs)
	}
	return m.queryLogs[:limit], nil
}

func (m *mockStore) Close() error { return nil }

// mockSource implements driven.DocumentSource over fixed documents.
type mockSource struct {
	infos    []domain.FileInfo
	contents map[string]string
	parsed   map[string]*domain.ParsedDocument
	parseErr map[string]error
}

var _ driven.DocumentSource = (*mockSource)(nil)

func newMockSource() *mockSource {
	return &mockSource{
		contents: make(map[string]string),
		parsed:   make(map[string]*domain.ParsedDocument),
		parseErr: make(map[string]error),
	}
}

func (m *mockSource) add(path, employee, content string) {
	m.infos = append(m.infos, domain.FileInfo{
		Path:         path,
		EmployeeName: employee,
		Size:         int64(len(content)),
		Modified:     time.Now(),
	})
	m.contents[path] = content
	m.parsed[path] = &domain.ParsedDocument{
		Path:         path,
		EmployeeName: employee,
		FullText:     content,
		Sections:     map[string][]string{"Notes": {content}},
		SectionOrder: []string{"Notes"},
	}
}

func (m *mockSource) ListCandidates(_ context.Context) ([]domain.FileInfo, error) {
	return m.infos, nil
}

func (m *mockSource) ListRecent(_ context.Context, since time.Time) ([]domain.FileInfo, error) {
	var out []domain.FileInfo
	for _, info := range m.infos {
		if !info.Modified.Before(since) {
			out = append(out, info)
		}
	}
	return out, nil
}

func (m *mockSource) Open(_ context.Context, info domain.FileInfo) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte(m.contents[info.Path]))), nil
}

func (m *mockSource) Parse(_ context.Context, info domain.FileInfo) (*domain.ParsedDocument, error) {
	if err := m.parseErr[info.Path]; err != nil {
		return nil, err
	}
	return m.parsed[info.Path], nil
}

func (m *mockSource) Close() error { return nil }
