package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driving.AnalysisOrchestrator = (*Analyzer)(nil)

// maxRiskIndicators is the count above which risk mentions alone flag a
// document for attention.
const maxRiskIndicators = 2

// Analyzer coordinates the document analysis pipeline: listing
// candidates, skipping unchanged documents, extracting results, and
// persisting them.
type Analyzer struct {
	cfg       domain.Config
	source    driven.DocumentSource
	store     driven.AnalysisStore
	extractor *Extractor
	nowFn     func() time.Time
}

// NewAnalyzer creates an analysis orchestrator.
func NewAnalyzer(cfg domain.Config, source driven.DocumentSource, store driven.AnalysisStore, extractor *Extractor) *Analyzer {
	return &Analyzer{
		cfg:       cfg,
		source:    source,
		store:     store,
		extractor: extractor,
		nowFn:     time.Now,
	}
}

// RunAll analyses every candidate document.
func (a *Analyzer) RunAll(ctx context.Context, force bool) (*domain.RunStats, error) {
	infos, err := a.source.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return a.runBatch(ctx, infos, force, time.Time{}), nil
}

// RunRecent analyses documents modified within the look-back window.
func (a *Analyzer) RunRecent(ctx context.Context, days int) (*domain.RunStats, error) {
	if days <= 0 {
		days = a.cfg.Analysis.RecentWindowDays
	}
	since := a.nowFn().AddDate(0, 0, -days)

	infos, err := a.source.ListRecent(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list recent candidates: %w", err)
	}
	return a.runBatch(ctx, infos, false, since), nil
}

// runBatch processes a set of candidates. Per-document failures are
// counted, not propagated, so one bad file never aborts the batch.
func (a *Analyzer) runBatch(ctx context.Context, infos []domain.FileInfo, force bool, periodStart time.Time) *domain.RunStats {
	stats := &domain.RunStats{
		TotalFiles:  len(infos),
		PeriodStart: periodStart,
	}

	logger.Section("Analysing %d document(s)", len(infos))
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			logger.Warn("analysis interrupted: %v", err)
			break
		}
		if err := a.processDocument(ctx, info, force, stats); err != nil {
			stats.Errors++
			logger.Warn("analyse %s: %v", info.Path, err)
		}
	}

	stats.PeriodEnd = a.nowFn()
	logger.Info("Analysis complete: %d processed, %d skipped, %d errors",
		stats.Processed, stats.Skipped, stats.Errors)
	return stats
}

// processDocument runs the pipeline for a single candidate.
func (a *Analyzer) processDocument(ctx context.Context, info domain.FileInfo, force bool, stats *domain.RunStats) error {
	// 1. Fingerprint the raw content
	rc, err := a.source.Open(ctx, info)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	fingerprint, err := Fingerprint(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("fingerprint document: %w", err)
	}

	// 2. Skip unchanged documents unless forced
	existing, err := a.store.GetDocument(ctx, info.Path)
	if err != nil && err != domain.ErrNotFound {
		return fmt.Errorf("load stored document: %w", err)
	}
	if existing != nil && existing.Fingerprint == fingerprint && !force {
		stats.Skipped++
		logger.Debug("unchanged, skipping: %s", info.Path)
		return nil
	}

	// 3. Parse structured text
	parsed, err := a.source.Parse(ctx, info)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	// 4. Analyse
	verdict := a.extractor.ClassifyMeeting(ctx, parsed)
	items := a.extractor.ExtractCategories(ctx, parsed)

	// 5. Persist document, verdict, and items together
	record := &domain.DocumentRecord{
		Path:            parsed.Path,
		EmployeeName:    parsed.EmployeeName,
		FullText:        parsed.FullText,
		Sections:        parsed.Sections,
		DatesFound:      parsed.DatesFound,
		MeetingSections: parsed.MeetingSections,
		Fingerprint:     fingerprint,
		FileSize:        info.Size,
		FileModified:    info.Modified,
		AnalyzedAt:      a.nowFn(),
	}
	if err := a.store.SaveAnalysis(ctx, record, verdict, items); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	// 6. Update run statistics
	stats.Processed++
	if existing == nil {
		stats.NewAnalyses++
	} else {
		stats.UpdatedAnalyses++
	}
	if verdict.MeetingOccurred {
		stats.MeetingsDetected++
	} else {
		stats.MeetingsMissed++
	}
	if reason := a.attentionReason(verdict, items); reason != "" {
		stats.AttentionRequired = append(stats.AttentionRequired, domain.AttentionCase{
			Employee:   record.EmployeeName,
			Path:       record.Path,
			Reason:     reason,
			Confidence: verdict.Confidence,
		})
	}
	return nil
}

// attentionReason explains why a flagged document needs follow-up. Only
// verdicts marked for attention produce a reason; the rest return "".
func (a *Analyzer) attentionReason(verdict *domain.MeetingVerdict, items *domain.ExtractedItemSet) string {
	if !verdict.RequiresAttention {
		return ""
	}

	var reasons []string
	if !verdict.MeetingOccurred {
		reasons = append(reasons, "possible missed meeting")
	}
	if verdict.Confidence < a.cfg.Analysis.ConfidenceThreshold {
		reasons = append(reasons, "low confidence")
	}
	if items != nil {
		if n := len(items.Risks); n > maxRiskIndicators {
			reasons = append(reasons, fmt.Sprintf("multiple risk indicators (%d)", n))
		}
		for _, item := range items.Feedback {
			if item.Sentiment == "negative" {
				reasons = append(reasons, "negative feedback detected")
				break
			}
		}
	}

	if len(reasons) == 0 {
		return "requires review"
	}
	return strings.Join(reasons, "; ")
}

// Summary aggregates stored analyses from the look-back window.
func (a *Analyzer) Summary(ctx context.Context, days int) (*domain.InsightSummary, error) {
	if days <= 0 {
		days = a.cfg.Analysis.RecentWindowDays
	}
	since := a.nowFn().AddDate(0, 0, -days)

	analyses, err := a.store.ListAnalyses(ctx, driven.AnalysisFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	summary := &domain.InsightSummary{
		PeriodDays:     days,
		TotalDocuments: len(analyses),
	}
	employees := make(map[string]struct{})

	for _, an := range analyses {
		employees[an.Document.EmployeeName] = struct{}{}

		if v := an.Verdict; v != nil {
			summary.MeetingsTotal++
			if v.MeetingOccurred {
				summary.MeetingsOccurred++
			} else {
				summary.MeetingsMissed++
			}
			if reason := a.attentionReason(v, an.Items); reason != "" {
				summary.AttentionCases = append(summary.AttentionCases, domain.AttentionCase{
					Employee:   an.Document.EmployeeName,
					Path:       an.Document.Path,
					Reason:     reason,
					Confidence: v.Confidence,
				})
			}
		}

		if an.Items == nil {
			continue
		}
		for _, item := range an.Items.Training {
			summary.TrainingRequests = append(summary.TrainingRequests, insightItem(an, item))
		}
		for _, item := range an.Items.Feedback {
			if item.Sentiment == "negative" {
				summary.FeedbackConcerns = append(summary.FeedbackConcerns, insightItem(an, item))
			}
		}
		for _, item := range an.Items.Location {
			if item.Kind == "relocation_plans" {
				summary.RelocationPlans = append(summary.RelocationPlans, insightItem(an, item))
			}
		}
	}

	summary.Employees = make([]string, 0, len(employees))
	for name := range employees {
		summary.Employees = append(summary.Employees, name)
	}
	sort.Strings(summary.Employees)
	return summary, nil
}

func insightItem(an domain.DocumentAnalysis, item domain.ExtractedItem) domain.InsightItem {
	return domain.InsightItem{
		Employee: an.Document.EmployeeName,
		Content:  item.Content,
		Context:  item.Context,
		Kind:     item.Kind,
	}
}

// BuildAttentionReport renders run statistics into a report payload.
func (a *Analyzer) BuildAttentionReport(stats *domain.RunStats) domain.AttentionReport {
	summary := fmt.Sprintf(
		"%d document(s) analysed, %d skipped, %d error(s). "+
			"Meetings: %d detected, %d missed. %d document(s) need attention.",
		stats.Processed, stats.Skipped, stats.Errors,
		stats.MeetingsDetected, stats.MeetingsMissed,
		len(stats.AttentionRequired),
	)
	return domain.AttentionReport{
		Title:       "Development plan analysis",
		Summary:     summary,
		Stats:       *stats,
		GeneratedAt: a.nowFn(),
	}
}
