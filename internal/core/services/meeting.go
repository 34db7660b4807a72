package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// minMeetingContentLen is the minimum section content length that counts
// as evidence of a meeting in the fallback path.
const minMeetingContentLen = 50

// Truncation limits for the AI meeting context.
const (
	maxContextDates    = 5
	maxContextSections = 10
	dateContextChars   = 100
	sectionChars       = 200
)

// sectionHints mark non-meeting sections still worth showing to the model.
var sectionHints = []string{"checkpoint", "review", "2025", "2024"}

// meetingReply mirrors the JSON object the model is asked to return.
type meetingReply struct {
	MeetingOccurred   bool     `json:"meeting_occurred"`
	Confidence        float64  `json:"confidence"`
	Evidence          []string `json:"evidence"`
	PlannedDate       string   `json:"planned_date"`
	ActualDate        string   `json:"actual_date"`
	MeetingType       string   `json:"meeting_type"`
	RequiresAttention bool     `json:"requires_attention"`
}

// classifyMeetingAI asks the language model whether a meeting took place.
// Transport failures fall back to the heuristic path; malformed replies
// produce a low-confidence verdict flagged for attention.
func (e *Extractor) classifyMeetingAI(ctx context.Context, doc *domain.ParsedDocument) *domain.MeetingVerdict {
	prompt := buildMeetingPrompt(doc)

	reply, err := e.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: meetingSystemPrompt},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   e.cfg.AI.MaxTokens,
		Temperature: e.cfg.AI.Temperature,
	})
	if err != nil {
		logger.Warn("AI meeting analysis failed for %s, using fallback: %v", doc.Path, err)
		return e.classifyMeetingFallback(doc)
	}

	verdict := parseMeetingReply(reply)
	verdict.DocumentPath = doc.Path
	verdict.Method = domain.MethodAI
	verdict.AnalyzedAt = e.now()
	return verdict
}

const meetingSystemPrompt = "You are an HR analyst reviewing employee development plans. " +
	"Answer strictly with a single JSON object and no other text."

// buildMeetingPrompt assembles the document context shown to the model.
func buildMeetingPrompt(doc *domain.ParsedDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Employee: %s\n\n", doc.EmployeeName)

	if len(doc.DatesFound) > 0 {
		b.WriteString("Dates mentioned in the document:\n")
		for i, d := range doc.DatesFound {
			if i >= maxContextDates {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", d.Raw, truncate(d.Context, dateContextChars))
		}
		b.WriteString("\n")
	}

	b.WriteString("Relevant sections:\n")
	count := 0
	for _, name := range doc.SectionOrder {
		if count >= maxContextSections {
			break
		}
		if !isMeetingRelevantSection(doc, name) {
			continue
		}
		content := strings.Join(doc.Sections[name], " ")
		fmt.Fprintf(&b, "%s: %s\n", name, truncate(content, sectionChars))
		count++
	}

	b.WriteString("\nBased on this development plan, determine whether a development " +
		"meeting between the employee and their manager has taken place. " +
		"Respond with a JSON object with fields: meeting_occurred (bool), " +
		"confidence (0-1), evidence (array of strings), planned_date (string), " +
		"actual_date (string), meeting_type (string), requires_attention (bool).")

	return b.String()
}

func isMeetingRelevantSection(doc *domain.ParsedDocument, name string) bool {
	for _, m := range doc.MeetingSections {
		if m == name {
			return true
		}
	}
	lower := strings.ToLower(name)
	for _, hint := range sectionHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// parseMeetingReply turns the model's reply into a verdict. The path,
// method, and timestamp are filled in by the caller.
func parseMeetingReply(reply string) *domain.MeetingVerdict {
	payload := extractJSONPayload(reply, false)
	if payload == "" {
		return &domain.MeetingVerdict{
			MeetingOccurred:   false,
			Confidence:        0.5,
			Evidence:          []string{"Could not parse AI response"},
			RequiresAttention: true,
		}
	}

	var parsed meetingReply
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return &domain.MeetingVerdict{
			MeetingOccurred:   false,
			Confidence:        0.3,
			Evidence:          []string{fmt.Sprintf("Parse error: %v", err)},
			RequiresAttention: true,
		}
	}

	return &domain.MeetingVerdict{
		MeetingOccurred:   parsed.MeetingOccurred,
		Confidence:        parsed.Confidence,
		Evidence:          parsed.Evidence,
		PlannedDate:       parsed.PlannedDate,
		ActualDate:        parsed.ActualDate,
		MeetingType:       parsed.MeetingType,
		RequiresAttention: parsed.RequiresAttention,
	}
}

// classifyMeetingFallback decides from section content alone: a meeting
// section with substantial content is taken as evidence the meeting
// happened.
func (e *Extractor) classifyMeetingFallback(doc *domain.ParsedDocument) *domain.MeetingVerdict {
	var evidence []string
	for _, name := range doc.MeetingSections {
		content := strings.Join(doc.Sections[name], " ")
		if len(content) > minMeetingContentLen {
			evidence = append(evidence, fmt.Sprintf("Content found in %s", name))
		}
	}

	occurred := len(evidence) > 0
	confidence := 0.7
	if occurred {
		confidence = 0.6
	}

	return &domain.MeetingVerdict{
		DocumentPath:      doc.Path,
		MeetingOccurred:   occurred,
		Confidence:        confidence,
		Evidence:          evidence,
		RequiresAttention: !occurred,
		Method:            domain.MethodFallback,
		AnalyzedAt:        e.now(),
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
