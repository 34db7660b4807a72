package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
)

// analysisStore implements driven.AnalysisStore.
type analysisStore struct {
	store *Store
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

// GetDocument retrieves a document record by path.
func (s *analysisStore) GetDocument(ctx context.Context, path string) (*domain.DocumentRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT path, employee_name, full_text, sections, dates_found, meeting_sections,
		       fingerprint, file_size, file_modified, analyzed_at
		FROM documents WHERE path = ?
	`, path)
	return scanDocument(row)
}

// SaveAnalysis stores a document with its verdict and items in a single
// transaction, replacing any previous analysis for the same path.
func (s *analysisStore) SaveAnalysis(ctx context.Context, doc *domain.DocumentRecord, verdict *domain.MeetingVerdict, items *domain.ExtractedItemSet) error {
	if doc == nil || doc.Path == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertDocument(ctx, tx, doc); err != nil {
		return err
	}

	// Replace previous analysis rows for this document
	if _, err := tx.ExecContext(ctx, "DELETE FROM meeting_verdicts WHERE document_path = ?", doc.Path); err != nil {
		return fmt.Errorf("clearing verdict: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM extracted_items WHERE document_path = ?", doc.Path); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM item_sets WHERE document_path = ?", doc.Path); err != nil {
		return fmt.Errorf("clearing item set: %w", err)
	}

	if verdict != nil {
		if err := insertVerdict(ctx, tx, doc.Path, verdict); err != nil {
			return err
		}
	}
	if items != nil {
		if err := insertItems(ctx, tx, doc.Path, items); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing analysis: %w", err)
	}
	return nil
}

func upsertDocument(ctx context.Context, tx *sql.Tx, doc *domain.DocumentRecord) error {
	sectionsJSON, err := json.Marshal(doc.Sections)
	if err != nil {
		return fmt.Errorf("marshalling sections: %w", err)
	}
	datesJSON, err := json.Marshal(doc.DatesFound)
	if err != nil {
		return fmt.Errorf("marshalling dates: %w", err)
	}
	meetingJSON, err := json.Marshal(doc.MeetingSections)
	if err != nil {
		return fmt.Errorf("marshalling meeting sections: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (path, employee_name, full_text, sections, dates_found,
		                       meeting_sections, fingerprint, file_size, file_modified, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			employee_name = excluded.employee_name,
			full_text = excluded.full_text,
			sections = excluded.sections,
			dates_found = excluded.dates_found,
			meeting_sections = excluded.meeting_sections,
			fingerprint = excluded.fingerprint,
			file_size = excluded.file_size,
			file_modified = excluded.file_modified,
			analyzed_at = excluded.analyzed_at
	`, doc.Path, doc.EmployeeName, doc.FullText, string(sectionsJSON), string(datesJSON),
		string(meetingJSON), doc.Fingerprint, doc.FileSize,
		formatNullableTime(doc.FileModified), doc.AnalyzedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func insertVerdict(ctx context.Context, tx *sql.Tx, path string, v *domain.MeetingVerdict) error {
	evidenceJSON, err := json.Marshal(v.Evidence)
	if err != nil {
		return fmt.Errorf("marshalling evidence: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meeting_verdicts (document_path, meeting_occurred, confidence, evidence,
		                              planned_date, actual_date, meeting_type, requires_attention,
		                              method, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, path, boolToInt(v.MeetingOccurred), v.Confidence, string(evidenceJSON),
		nullString(v.PlannedDate), nullString(v.ActualDate), nullString(v.MeetingType),
		boolToInt(v.RequiresAttention), string(v.Method), v.AnalyzedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("saving verdict: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, path string, set *domain.ExtractedItemSet) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO item_sets (document_path, method, extracted_at) VALUES (?, ?, ?)
	`, path, string(set.Method), set.ExtractedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving item set: %w", err)
	}

	for _, c := range domain.Categories {
		for _, item := range set.ItemsFor(c) {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO extracted_items (document_path, category, kind, content,
				                             status, sentiment, severity, context)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, path, string(c), item.Kind, item.Content,
				nullString(item.Status), nullString(item.Sentiment),
				nullString(item.Severity), nullString(item.Context))
			if err != nil {
				return fmt.Errorf("saving extracted item: %w", err)
			}
		}
	}
	return nil
}

// ListAnalyses returns stored analyses matching the filter, most
// recently analysed first. Employee matching is case-insensitive
// substring, so first names alone work.
func (s *analysisStore) ListAnalyses(ctx context.Context, filter driven.AnalysisFilter) ([]domain.DocumentAnalysis, error) {
	query := `
		SELECT path, employee_name, full_text, sections, dates_found, meeting_sections,
		       fingerprint, file_size, file_modified, analyzed_at
		FROM documents`
	var args []interface{}
	if !filter.Since.IsZero() {
		query += " WHERE analyzed_at >= ?"
		args = append(args, filter.Since.Format(time.RFC3339Nano))
	}
	query += " ORDER BY analyzed_at DESC"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var analyses []domain.DocumentAnalysis //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		if !employeeMatches(doc.EmployeeName, filter.EmployeeNames) {
			continue
		}
		analyses = append(analyses, domain.DocumentAnalysis{Document: *doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for i := range analyses {
		path := analyses[i].Document.Path
		verdict, err := s.loadVerdict(ctx, path)
		if err != nil {
			return nil, err
		}
		analyses[i].Verdict = verdict

		items, err := s.loadItems(ctx, path)
		if err != nil {
			return nil, err
		}
		analyses[i].Items = items
	}
	return analyses, nil
}

func employeeMatches(name string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func (s *analysisStore) loadVerdict(ctx context.Context, path string) (*domain.MeetingVerdict, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT document_path, meeting_occurred, confidence, evidence, planned_date,
		       actual_date, meeting_type, requires_attention, method, analyzed_at
		FROM meeting_verdicts WHERE document_path = ?
	`, path)

	var v domain.MeetingVerdict
	var occurred, attention int
	var evidenceJSON string
	var planned, actual, meetingType sql.NullString
	var method, analyzedAt string

	err := row.Scan(&v.DocumentPath, &occurred, &v.Confidence, &evidenceJSON,
		&planned, &actual, &meetingType, &attention, &method, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning verdict: %w", err)
	}

	v.MeetingOccurred = occurred == 1
	v.RequiresAttention = attention == 1
	v.Method = domain.AnalysisMethod(method)
	if err := json.Unmarshal([]byte(evidenceJSON), &v.Evidence); err != nil {
		return nil, fmt.Errorf("unmarshalling evidence: %w", err)
	}
	v.PlannedDate = planned.String
	v.ActualDate = actual.String
	v.MeetingType = meetingType.String
	if t, err := time.Parse(time.RFC3339Nano, analyzedAt); err == nil {
		v.AnalyzedAt = t
	}
	return &v, nil
}

func (s *analysisStore) loadItems(ctx context.Context, path string) (*domain.ExtractedItemSet, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT method, extracted_at FROM item_sets WHERE document_path = ?
	`, path)

	set := &domain.ExtractedItemSet{DocumentPath: path}
	var method, extractedAt string
	err := row.Scan(&method, &extractedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item set: %w", err)
	}
	set.Method = domain.AnalysisMethod(method)
	if t, err := time.Parse(time.RFC3339Nano, extractedAt); err == nil {
		set.ExtractedAt = t
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT category, kind, content, status, sentiment, severity, context
		FROM extracted_items WHERE document_path = ? ORDER BY id
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying extracted items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, kind, content string
		var status, sentiment, severity, itemContext sql.NullString
		if err := rows.Scan(&category, &kind, &content, &status, &sentiment, &severity, &itemContext); err != nil {
			return nil, fmt.Errorf("scanning extracted item: %w", err)
		}
		item := domain.ExtractedItem{
			Kind:      kind,
			Content:   content,
			Status:    status.String,
			Sentiment: sentiment.String,
			Severity:  severity.String,
			Context:   itemContext.String,
		}
		c := domain.Category(category)
		set.SetItems(c, append(set.ItemsFor(c), item))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extracted items: %w", err)
	}
	return set, nil
}

// CountDocuments returns the number of stored document records.
func (s *analysisStore) CountDocuments(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// LogQuery records an executed query.
func (s *analysisStore) LogQuery(ctx context.Context, entry *domain.QueryLogEntry) error {
	if entry == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_logs (id, query_text, intent, result_count, summary, duration_ms, queried_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.QueryText, entry.Intent, entry.ResultCount,
		nullString(entry.Summary), entry.Duration.Milliseconds(),
		entry.QueriedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("logging query: %w", err)
	}
	return nil
}

// ListQueryLogs returns the most recent query log entries, newest first.
func (s *analysisStore) ListQueryLogs(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query_text, intent, result_count, summary, duration_ms, queried_at
		FROM query_logs ORDER BY queried_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying query logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueryLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var e domain.QueryLogEntry
		var summary sql.NullString
		var durationMs int64
		var queriedAt string
		if err := rows.Scan(&e.ID, &e.QueryText, &e.Intent, &e.ResultCount,
			&summary, &durationMs, &queriedAt); err != nil {
			return nil, fmt.Errorf("scanning query log: %w", err)
		}
		e.Summary = summary.String
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, queriedAt); err == nil {
			e.QueriedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query logs: %w", err)
	}
	return entries, nil
}

// Close closes the underlying store.
func (s *analysisStore) Close() error {
	return s.store.Close()
}

// ==================== Scan Helpers ====================

func scanDocument(row *sql.Row) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var sectionsJSON, datesJSON, meetingJSON, analyzedAt string
	var fileModified sql.NullString

	err := row.Scan(&doc.Path, &doc.EmployeeName, &doc.FullText, &sectionsJSON,
		&datesJSON, &meetingJSON, &doc.Fingerprint, &doc.FileSize,
		&fileModified, &analyzedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return finishDocument(&doc, sectionsJSON, datesJSON, meetingJSON, fileModified, analyzedAt)
}

func scanDocumentRows(rows *sql.Rows) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	var sectionsJSON, datesJSON, meetingJSON, analyzedAt string
	var fileModified sql.NullString

	err := rows.Scan(&doc.Path, &doc.EmployeeName, &doc.FullText, &sectionsJSON,
		&datesJSON, &meetingJSON, &doc.Fingerprint, &doc.FileSize,
		&fileModified, &analyzedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return finishDocument(&doc, sectionsJSON, datesJSON, meetingJSON, fileModified, analyzedAt)
}

func finishDocument(doc *domain.DocumentRecord, sectionsJSON, datesJSON, meetingJSON string, fileModified sql.NullString, analyzedAt string) (*domain.DocumentRecord, error) {
	if err := json.Unmarshal([]byte(sectionsJSON), &doc.Sections); err != nil {
		return nil, fmt.Errorf("unmarshalling sections: %w", err)
	}
	if err := json.Unmarshal([]byte(datesJSON), &doc.DatesFound); err != nil {
		return nil, fmt.Errorf("unmarshalling dates: %w", err)
	}
	if err := json.Unmarshal([]byte(meetingJSON), &doc.MeetingSections); err != nil {
		return nil, fmt.Errorf("unmarshalling meeting sections: %w", err)
	}
	doc.FileModified = parseNullableTime(fileModified)
	if t, err := time.Parse(time.RFC3339Nano, analyzedAt); err == nil {
		doc.AnalyzedAt = t
	}
	return doc, nil
}
