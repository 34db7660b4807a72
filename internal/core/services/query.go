package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.QueryService = (*QueryEngine)(nil)

// discomfortTerms widen feedback matching beyond the query's own words,
// so questions about satisfaction surface dissatisfaction signals too.
var discomfortTerms = []string{
	"дискомфорт", "проблем", "недовольств", "стресс", "вызывает",
	"беспокоит", "волнует", "тревожит", "расстраивает", "огорчает",
	"не нравится", "не устраивает",
}

// generalScanTerms supplement the query keywords in the general full-text
// scan.
var generalScanTerms = []string{
	"дискомфорт", "проблем", "недовольств", "стресс", "вызывает",
}

// generalMatchTerms are checked alongside query keywords when scanning
// extracted items for a general query.
var generalMatchTerms = []string{
	"дискомфорт", "проблем", "недовольств", "стресс", "вызывает", "не нравится",
}

// maxGeneralSentences caps the sentences quoted in a full-text scan row.
const maxGeneralSentences = 3

// QueryEngine answers natural-language questions over stored analyses.
type QueryEngine struct {
	store      driven.AnalysisStore
	classifier *Classifier
	cfg        domain.Config
	nowFn      func() time.Time
}

// NewQueryEngine creates a query engine over the given store.
func NewQueryEngine(cfg domain.Config, store driven.AnalysisStore, classifier *Classifier) *QueryEngine {
	return &QueryEngine{
		store:      store,
		classifier: classifier,
		cfg:        cfg,
		nowFn:      time.Now,
	}
}

// Ask classifies the question, searches stored analyses, and returns
// ranked results with a summary.
func (q *QueryEngine) Ask(ctx context.Context, query string) *domain.QueryResponse {
	started := q.nowFn()
	resp := &domain.QueryResponse{
		Query:     query,
		Timestamp: started,
	}

	if strings.TrimSpace(query) == "" {
		return failResponse(resp, "empty query")
	}

	intent := q.classifier.Classify(query)
	resp.Analysis = intent

	filter := driven.AnalysisFilter{EmployeeNames: intent.EmployeeNames}
	if intent.TimeWindowDays > 0 {
		filter.Since = started.AddDate(0, 0, -intent.TimeWindowDays)
	}

	analyses, err := q.store.ListAnalyses(ctx, filter)
	if err != nil {
		return failResponse(resp, fmt.Sprintf("search analyses: %v", err))
	}

	rows := q.project(intent, strings.ToLower(query), analyses)
	rankRows(rows)

	resp.Success = true
	resp.Results = rows
	resp.TotalResults = len(rows)
	resp.Summary = summarise(intent, rows)

	q.logQuery(ctx, query, intent, resp, q.nowFn().Sub(started))
	return resp
}

// failResponse marks the response failed and mirrors the error into the
// summary, so callers that only render the summary still see it.
func failResponse(resp *domain.QueryResponse, msg string) *domain.QueryResponse {
	resp.Error = msg
	resp.Summary = "Query processing failed: " + msg
	return resp
}

// logQuery records the executed query for popularity reporting.
// Failures are logged, not surfaced.
func (q *QueryEngine) logQuery(ctx context.Context, query string, intent domain.QueryIntent, resp *domain.QueryResponse, took time.Duration) {
	entry := &domain.QueryLogEntry{
		ID:          uuid.NewString(),
		QueryText:   query,
		Intent:      intent.Intent,
		ResultCount: resp.TotalResults,
		Summary:     resp.Summary,
		Duration:    took,
		QueriedAt:   q.nowFn(),
	}
	if err := q.store.LogQuery(ctx, entry); err != nil {
		logger.Warn("log query: %v", err)
	}
}

// PopularQueries aggregates the query log by intent.
func (q *QueryEngine) PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error) {
	if limit <= 0 {
		limit = 5
	}

	entries, err := q.store.ListQueryLogs(ctx, 200)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}

	type bucket struct {
		example string
		count   int
		results int
	}
	buckets := make(map[domain.Intent]*bucket)
	for _, e := range entries {
		b := buckets[e.Intent]
		if b == nil {
			// Entries arrive newest first, so the first text seen is the
			// most recent example.
			b = &bucket{example: e.QueryText}
			buckets[e.Intent] = b
		}
		b.count++
		b.results += e.ResultCount
	}

	popular := make([]domain.PopularQuery, 0, len(buckets))
	for intent, b := range buckets {
		popular = append(popular, domain.PopularQuery{
			Example:    b.example,
			Count:      b.count,
			Intent:     intent,
			AvgResults: float64(b.results) / float64(b.count),
		})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Intent < popular[j].Intent
	})
	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

// project turns stored analyses into result rows for the given intent.
func (q *QueryEngine) project(intent domain.QueryIntent, lowerQuery string, analyses []domain.DocumentAnalysis) []domain.ResultRow {
	switch intent.Intent {
	case domain.IntentMeetings:
		missedOnly := strings.Contains(lowerQuery, "пропу") || strings.Contains(lowerQuery, "missed")
		return projectMeetings(analyses, missedOnly)
	case domain.IntentFeedback:
		return projectFeedback(analyses, intent.Keywords)
	case domain.IntentGeneral:
		return projectGeneral(analyses, intent.Keywords)
	default:
		return projectCategories(analyses, intent.Categories, intent.Keywords)
	}
}

// projectCategories returns the items in the intent's categories whose
// content mentions a query keyword. An empty keyword set keeps everything.
func projectCategories(analyses []domain.DocumentAnalysis, categories []domain.Category, keywords []string) []domain.ResultRow {
	var rows []domain.ResultRow
	for _, a := range analyses {
		if a.Items == nil {
			continue
		}
		for _, c := range categories {
			for _, item := range a.Items.ItemsFor(c) {
				if len(keywords) > 0 && !matchesAny(strings.ToLower(item.Content), keywords) {
					continue
				}
				rows = append(rows, itemRow(a, c, item))
			}
		}
	}
	return rows
}

// projectFeedback unions feedback and risk items, keeping those that
// match the query keywords or the discomfort terms.
func projectFeedback(analyses []domain.DocumentAnalysis, keywords []string) []domain.ResultRow {
	var rows []domain.ResultRow
	for _, a := range analyses {
		if a.Items == nil {
			continue
		}
		for _, c := range []domain.Category{domain.CategoryFeedback, domain.CategoryRisk} {
			for _, item := range a.Items.ItemsFor(c) {
				haystack := strings.ToLower(item.Content + " " + item.Context)
				if matchesAny(haystack, keywords) || matchesAny(haystack, discomfortTerms) {
					rows = append(rows, itemRow(a, c, item))
				}
			}
		}
	}
	return rows
}

// projectMeetings turns verdicts into rows.
func projectMeetings(analyses []domain.DocumentAnalysis, missedOnly bool) []domain.ResultRow {
	var rows []domain.ResultRow
	for _, a := range analyses {
		v := a.Verdict
		if v == nil {
			continue
		}
		if missedOnly && v.MeetingOccurred {
			continue
		}
		content := "Development meeting occurred"
		if !v.MeetingOccurred {
			content = "No development meeting detected"
		}
		rows = append(rows, domain.ResultRow{
			EmployeeName:  a.Document.EmployeeName,
			Date:          a.Document.AnalyzedAt,
			Type:          "meeting_status",
			Content:       content,
			Context:       strings.Join(v.Evidence, "; "),
			Confidence:    v.Confidence,
			MeetingMissed: !v.MeetingOccurred,
			DocumentLink:  a.Document.Path,
		})
	}
	return rows
}

// projectGeneral scans all categories for keyword matches, falling back
// to a full-text sentence scan per document when no items match.
func projectGeneral(analyses []domain.DocumentAnalysis, keywords []string) []domain.ResultRow {
	var rows []domain.ResultRow
	for _, a := range analyses {
		matched := false
		if a.Items != nil {
			for _, c := range domain.Categories {
				for _, item := range a.Items.ItemsFor(c) {
					haystack := strings.ToLower(item.Content + " " + item.Context)
					if matchesAny(haystack, keywords) || matchesAny(haystack, generalMatchTerms) {
						rows = append(rows, itemRow(a, c, item))
						matched = true
					}
				}
			}
		}
		if matched {
			continue
		}
		if row, ok := scanFullText(a, keywords); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// scanFullText quotes up to three sentences mentioning the query terms.
func scanFullText(a domain.DocumentAnalysis, keywords []string) (domain.ResultRow, bool) {
	terms := append(append([]string{}, keywords...), generalScanTerms...)

	var sentences []string
	for _, s := range splitSentences(a.Document.FullText) {
		if matchesAny(strings.ToLower(s), terms) {
			sentences = append(sentences, strings.TrimSpace(s))
			if len(sentences) >= maxGeneralSentences {
				break
			}
		}
	}
	if len(sentences) == 0 {
		return domain.ResultRow{}, false
	}
	return domain.ResultRow{
		EmployeeName: a.Document.EmployeeName,
		Date:         a.Document.AnalyzedAt,
		Type:         "general",
		Content:      strings.Join(sentences, " "),
		DocumentLink: a.Document.Path,
	}, true
}

var sentenceSplitter = strings.NewReplacer("!", ".", "?", ".", "\n", ".")

func splitSentences(text string) []string {
	return strings.Split(sentenceSplitter.Replace(text), ".")
}

func itemRow(a domain.DocumentAnalysis, c domain.Category, item domain.ExtractedItem) domain.ResultRow {
	return domain.ResultRow{
		EmployeeName: a.Document.EmployeeName,
		Date:         a.Document.AnalyzedAt,
		Type:         item.Kind,
		Content:      item.Content,
		Context:      item.Context,
		Category:     string(c),
		Status:       item.Status,
		Sentiment:    item.Sentiment,
		Severity:     item.Severity,
		DocumentLink: a.Document.Path,
	}
}

func matchesAny(haystack string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// rankRows orders results by date, newest first, breaking ties by
// employee name descending.
func rankRows(rows []domain.ResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].EmployeeName > rows[j].EmployeeName
	})
}

// summarise builds the human-readable answer line for a result set.
func summarise(intent domain.QueryIntent, rows []domain.ResultRow) string {
	if len(rows) == 0 {
		return "No results found for this query."
	}

	employees := make(map[string]struct{})
	for _, r := range rows {
		employees[r.EmployeeName] = struct{}{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s) across %d employee(s).", len(rows), len(employees))

	switch intent.Intent {
	case domain.IntentTraining:
		byCat := make(map[string]int)
		for _, r := range rows {
			byCat[r.Category]++
		}
		for _, c := range domain.Categories {
			if n := byCat[string(c)]; n > 0 {
				fmt.Fprintf(&b, " %s: %d.", c.Label(), n)
			}
		}
	case domain.IntentFeedback:
		negative := 0
		for _, r := range rows {
			if r.Sentiment == "negative" {
				negative++
			}
		}
		if negative > 0 {
			fmt.Fprintf(&b, " %d negative signal(s) detected.", negative)
		}
	case domain.IntentMeetings:
		missed := 0
		for _, r := range rows {
			if r.MeetingMissed {
				missed++
			}
		}
		fmt.Fprintf(&b, " %d possible missed meeting(s).", missed)
	}

	if len(employees) <= 10 {
		names := make([]string, 0, len(employees))
		for name := range employees {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, " Employees: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
