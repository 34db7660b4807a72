package domain

import "time"

// AnalysisMethod identifies which extraction path produced a result.
type AnalysisMethod string

// Available analysis methods.
const (
	// MethodAI means the language model produced the result.
	MethodAI AnalysisMethod = "ai"

	// MethodFallback means the deterministic heuristic produced the result.
	MethodFallback AnalysisMethod = "fallback"
)

// MeetingVerdict is the meeting-occurrence determination for one document.
// A document has at most one verdict; re-analysis replaces it.
type MeetingVerdict struct {
	// DocumentPath links to the owning DocumentRecord.
	DocumentPath string

	// MeetingOccurred is true when the document shows evidence of a
	// meeting having taken place.
	MeetingOccurred bool

	// Confidence is the analysis confidence in [0, 1].
	Confidence float64

	// Evidence lists the text fragments supporting the conclusion.
	Evidence []string

	// PlannedDate is the planned meeting date as written, if found.
	PlannedDate string

	// ActualDate is the actual meeting date as written, if found.
	ActualDate string

	// MeetingType is a free-form tag such as "checkpoint" or "review".
	MeetingType string

	// RequiresAttention marks the verdict for human HR follow-up.
	RequiresAttention bool

	// Method records whether the AI or fallback path decided.
	Method AnalysisMethod

	// AnalyzedAt is when the verdict was produced.
	AnalyzedAt time.Time
}

// DocumentAnalysis joins a stored document with its verdict and extracted
// items. This is the unit the query engine searches over.
type DocumentAnalysis struct {
	// Document is the stored document record.
	Document DocumentRecord

	// Verdict is the meeting verdict, nil if the document has none.
	Verdict *MeetingVerdict

	// Items is the extracted item set, nil if the document has none.
	Items *ExtractedItemSet
}
