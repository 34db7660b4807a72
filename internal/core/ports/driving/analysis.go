package driving

import (
	"context"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// AnalysisOrchestrator runs the document analysis pipeline for external
// actors. This is used by CLI, MCP, and scheduler.
type AnalysisOrchestrator interface {
	// RunAll analyses every candidate document, skipping unchanged ones
	// unless force is true.
	RunAll(ctx context.Context, force bool) (*domain.RunStats, error)

	// RunRecent analyses documents modified within the last 'days' days.
	// A non-positive value uses the configured default window.
	RunRecent(ctx context.Context, days int) (*domain.RunStats, error)

	// Summary aggregates stored analyses from the last 'days' days into
	// period insights. A non-positive value uses the configured default.
	Summary(ctx context.Context, days int) (*domain.InsightSummary, error)

	// BuildAttentionReport produces a report of documents needing HR
	// follow-up from the given run.
	BuildAttentionReport(stats *domain.RunStats) domain.AttentionReport
}
