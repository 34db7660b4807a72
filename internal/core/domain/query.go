package domain

import "time"

// Intent is the classified purpose of a free-text HR query.
type Intent string

// Recognised query intents. Classification is first-match-wins in this
// priority order; General is the fallback when nothing matches.
const (
	IntentTraining   Intent = "training"
	IntentFeedback   Intent = "feedback"
	IntentMeetings   Intent = "meetings"
	IntentRelocation Intent = "relocation"
	IntentHRProcess  Intent = "hr_processes"
	IntentGeneral    Intent = "general"
)

// IsValid returns true if the intent is recognised.
func (i Intent) IsValid() bool {
	switch i {
	case IntentTraining, IntentFeedback, IntentMeetings,
		IntentRelocation, IntentHRProcess, IntentGeneral:
		return true
	default:
		return false
	}
}

// QueryIntent is the structured interpretation of a free-text question.
type QueryIntent struct {
	// Intent is the classified purpose of the query.
	Intent Intent

	// Categories lists the extraction categories relevant to the intent.
	Categories []Category

	// TimeWindowDays limits results to documents analysed in the last N
	// days. Zero means no time filter.
	TimeWindowDays int

	// EmployeeNames filters results by employee name substring match.
	EmployeeNames []string

	// Keywords are the significant search terms from the query.
	Keywords []string
}

// ResultRow is one intent-specific search hit.
type ResultRow struct {
	// EmployeeName is the document's employee.
	EmployeeName string

	// Date is when the document was last analysed.
	Date time.Time

	// Type is the human-readable row label, e.g. "Training & Development".
	Type string

	// Content is the matched item content or text excerpt.
	Content string

	// Context is the surrounding document text, if available.
	Context string

	// Category is the item's sub-category tag, if available.
	Category string

	// Status is the item status, for training and process rows.
	Status string

	// Sentiment is the item sentiment, for feedback rows.
	Sentiment string

	// Severity is the item severity, for risk rows.
	Severity string

	// Confidence is the verdict confidence, for meeting rows.
	Confidence float64

	// MeetingMissed is true for meeting rows where no meeting occurred.
	MeetingMissed bool

	// DocumentLink points back to the source document.
	DocumentLink string
}

// QueryResponse is the full answer to one processed query.
type QueryResponse struct {
	// Success is false only when query processing itself failed.
	Success bool

	// Error holds the failure description when Success is false.
	Error string

	// Query echoes the original question.
	Query string

	// Analysis is the classified interpretation of the query.
	Analysis QueryIntent

	// TotalResults is the number of result rows.
	TotalResults int

	// Results are the ranked result rows.
	Results []ResultRow

	// Summary is a short human-readable description of the results.
	Summary string

	// Timestamp is when the response was produced.
	Timestamp time.Time
}

// QueryLogEntry records one processed query. Entries are append-only and
// never mutated.
type QueryLogEntry struct {
	// ID is the unique entry identifier.
	ID string

	// QueryText is the original question.
	QueryText string

	// Intent is the classified intent.
	Intent Intent

	// ResultCount is the number of result rows returned.
	ResultCount int

	// Summary is the response summary.
	Summary string

	// Duration is how long processing took.
	Duration time.Duration

	// QueriedAt is when the query was processed.
	QueriedAt time.Time
}

// PopularQuery aggregates similar logged queries for reporting.
type PopularQuery struct {
	// Example is a representative query text from the group.
	Example string

	// Count is how many similar queries were logged.
	Count int

	// Intent is the group's classified intent.
	Intent Intent

	// AvgResults is the mean result count across the group.
	AvgResults float64
}
