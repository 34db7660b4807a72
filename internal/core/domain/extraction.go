package domain

import "time"

// Category identifies one of the six extraction categories.
type Category string

// The six extraction categories.
const (
	CategoryTraining   Category = "training_development"
	CategoryFeedback   Category = "feedback_motivation"
	CategoryHRProcess  Category = "hr_processes"
	CategoryCommunity  Category = "community_engagement"
	CategoryLocation   Category = "location_relocation"
	CategoryRisk       Category = "risks_concerns"
)

// Categories lists all extraction categories in their canonical order.
var Categories = []Category{
	CategoryTraining,
	CategoryFeedback,
	CategoryHRProcess,
	CategoryCommunity,
	CategoryLocation,
	CategoryRisk,
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTraining, CategoryFeedback, CategoryHRProcess,
		CategoryCommunity, CategoryLocation, CategoryRisk:
		return true
	default:
		return false
	}
}

// Label returns a human-readable label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryTraining:
		return "Training & Development"
	case CategoryFeedback:
		return "Feedback & Motivation"
	case CategoryHRProcess:
		return "HR Processes"
	case CategoryCommunity:
		return "Community Engagement"
	case CategoryLocation:
		return "Location & Relocation"
	case CategoryRisk:
		return "Risks & Concerns"
	default:
		return string(c)
	}
}

// ExtractedItem is one piece of structured information pulled out of a
// document. The Status, Sentiment and Severity fields are kind-specific:
// training and HR items carry Status, feedback items carry Sentiment,
// risk items carry Severity. Unused fields stay empty.
type ExtractedItem struct {
	// Kind is a sub-category tag such as "training" or
	// "interview_participation".
	Kind string

	// Content is the matched or extracted phrase.
	Content string

	// Status is planned/completed/interested/mentioned for training and
	// process items.
	Status string

	// Sentiment is positive/negative/neutral for feedback items.
	Sentiment string

	// Severity is low/medium/high for risk items.
	Severity string

	// Context is the surrounding document text for verification.
	Context string
}

// ExtractedItemSet holds the six categorised item lists for one document.
// A document has at most one set; re-analysis replaces it.
type ExtractedItemSet struct {
	// DocumentPath links to the owning DocumentRecord.
	DocumentPath string

	// Training lists training and development items.
	Training []ExtractedItem

	// Feedback lists feedback and motivation items.
	Feedback []ExtractedItem

	// HRProcesses lists HR process and proposal items.
	HRProcesses []ExtractedItem

	// Community lists community engagement items.
	Community []ExtractedItem

	// Location lists location and relocation items.
	Location []ExtractedItem

	// Risks lists identified risks and concerns.
	Risks []ExtractedItem

	// Method records whether the AI or fallback path extracted.
	Method AnalysisMethod

	// ExtractedAt is when the set was produced.
	ExtractedAt time.Time
}

// ItemsFor returns the item list for the given category.
func (s *ExtractedItemSet) ItemsFor(c Category) []ExtractedItem {
	switch c {
	case CategoryTraining:
		return s.Training
	case CategoryFeedback:
		return s.Feedback
	case CategoryHRProcess:
		return s.HRProcesses
	case CategoryCommunity:
		return s.Community
	case CategoryLocation:
		return s.Location
	case CategoryRisk:
		return s.Risks
	default:
		return nil
	}
}

// SetItems replaces the item list for the given category.
func (s *ExtractedItemSet) SetItems(c Category, items []ExtractedItem) {
	switch c {
	case CategoryTraining:
		s.Training = items
	case CategoryFeedback:
		s.Feedback = items
	case CategoryHRProcess:
		s.HRProcesses = items
	case CategoryCommunity:
		s.Community = items
	case CategoryLocation:
		s.Location = items
	case CategoryRisk:
		s.Risks = items
	}
}

// Total returns the number of items across all six categories.
func (s *ExtractedItemSet) Total() int {
	return len(s.Training) + len(s.Feedback) + len(s.HRProcesses) +
		len(s.Community) + len(s.Location) + len(s.Risks)
}
