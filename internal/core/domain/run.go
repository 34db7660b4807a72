package domain

import "time"

// AttentionCase flags one document for human HR follow-up.
type AttentionCase struct {
	// Employee is the affected employee's name.
	Employee string

	// Path is the document that triggered the flag.
	Path string

	// Reason describes why attention is needed, e.g.
	// "possible missed meeting; low confidence".
	Reason string

	// Confidence is the verdict confidence for the document.
	Confidence float64
}

// RunStats aggregates the outcome of one analysis batch.
type RunStats struct {
	// TotalFiles is the number of candidate documents considered.
	TotalFiles int

	// Processed is the number of documents fully analysed.
	Processed int

	// Skipped is the number of unchanged documents left alone.
	Skipped int

	// Errors is the number of documents that failed.
	Errors int

	// NewAnalyses counts documents analysed for the first time.
	NewAnalyses int

	// UpdatedAnalyses counts documents re-analysed after a change.
	UpdatedAnalyses int

	// MeetingsDetected counts positive meeting verdicts.
	MeetingsDetected int

	// MeetingsMissed counts negative meeting verdicts.
	MeetingsMissed int

	// AttentionRequired lists documents flagged for HR follow-up.
	AttentionRequired []AttentionCase

	// PeriodStart and PeriodEnd bound the run, set for recent-only runs.
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// InsightItem is one aggregated finding in an InsightSummary.
type InsightItem struct {
	// Employee is the employee the finding concerns.
	Employee string

	// Content is the finding text.
	Content string

	// Context is a short excerpt of supporting document text.
	Context string

	// Kind is the item's sub-category tag.
	Kind string
}

// InsightSummary aggregates analysis results over a look-back period.
type InsightSummary struct {
	// PeriodDays is the look-back window in days.
	PeriodDays int

	// TotalDocuments is the number of documents in the window.
	TotalDocuments int

	// Employees lists the distinct employee names seen.
	Employees []string

	// MeetingsTotal, MeetingsOccurred and MeetingsMissed count verdicts.
	MeetingsTotal    int
	MeetingsOccurred int
	MeetingsMissed   int

	// AttentionCases lists documents flagged for follow-up.
	AttentionCases []AttentionCase

	// TrainingRequests lists planned or desired training items.
	TrainingRequests []InsightItem

	// FeedbackConcerns lists negative feedback items.
	FeedbackConcerns []InsightItem

	// RelocationPlans lists relocation-plan items.
	RelocationPlans []InsightItem
}

// AttentionReport is the payload handed to the notification collaborator
// after a batch run.
type AttentionReport struct {
	// Title is the report headline.
	Title string

	// Summary is a short human-readable description of the run.
	Summary string

	// Stats are the aggregate run statistics.
	Stats RunStats

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time
}
