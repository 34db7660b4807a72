package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// AnalysisFilter narrows the analyses returned by ListAnalyses.
// Zero-valued fields are ignored.
type AnalysisFilter struct {
	// Since keeps analyses produced at or after this time.
	Since time.Time

	// EmployeeNames keeps analyses whose employee name contains any of
	// these values, matched case-insensitively.
	EmployeeNames []string
}

// AnalysisStore persists documents together with their analysis results.
type AnalysisStore interface {
	// GetDocument retrieves a document record by path.
	// Returns domain.ErrNotFound if no record exists.
	GetDocument(ctx context.Context, path string) (*domain.DocumentRecord, error)

	// SaveAnalysis stores a document with its verdict and extracted items
	// in a single transaction, replacing any previous analysis for the
	// same path.
	SaveAnalysis(ctx context.Context, doc *domain.DocumentRecord, verdict *domain.MeetingVerdict, items *domain.ExtractedItemSet) error

	// ListAnalyses returns stored analyses matching the filter, most
	// recently analysed first.
	ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]domain.DocumentAnalysis, error)

	// CountDocuments returns the number of stored document records.
	CountDocuments(ctx context.Context) (int, error)

	// LogQuery records an executed natural-language query.
	LogQuery(ctx context.Context, entry *domain.QueryLogEntry) error

	// ListQueryLogs returns the most recent query log entries, newest
	// first, up to limit.
	ListQueryLogs(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)

	// Close releases the underlying storage handle.
	Close() error
}

// SchedulerStore persists scheduler state for crash recovery.
type SchedulerStore interface {
	// GetTask retrieves a scheduled task by ID.
	// Returns nil and no error if the task does not exist.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns all scheduled tasks.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask persists a task's state.
	// Creates or updates the task based on ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// RecordResult logs a task execution result.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns recent results for a task, most recent first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory removes old task results, keeping the most recent
	// 'keep' results per task.
	PruneHistory(ctx context.Context, keep int) error
}
