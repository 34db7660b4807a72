package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// AI category extraction parameters.
const (
	extractionTextChars = 3000
	extractionMaxTokens = 1000
	extractionTemp      = 0.3
)

// Extractor analyses parsed documents: it decides whether a development
// meeting took place and extracts categorised items from the text.
//
// The language model is optional. Without it, or when it fails, the
// deterministic fallback path produces results instead, so extraction
// itself never returns an error.
type Extractor struct {
	cfg   domain.Config
	llm   driven.LLMService
	nowFn func() time.Time
}

// NewExtractor creates an extractor. llm may be nil.
func NewExtractor(cfg domain.Config, llm driven.LLMService) *Extractor {
	return &Extractor{
		cfg:   cfg,
		llm:   llm,
		nowFn: time.Now,
	}
}

func (e *Extractor) now() time.Time {
	return e.nowFn()
}

// aiEnabled reports whether the model path should be attempted.
func (e *Extractor) aiEnabled() bool {
	return e.llm != nil && e.cfg.AI.Enabled
}

// ClassifyMeeting determines whether a development meeting took place.
func (e *Extractor) ClassifyMeeting(ctx context.Context, doc *domain.ParsedDocument) *domain.MeetingVerdict {
	if e.aiEnabled() {
		return e.classifyMeetingAI(ctx, doc)
	}
	return e.classifyMeetingFallback(doc)
}

// ExtractCategories extracts items for every category from a parsed
// document. Training and feedback use the model when available; the
// remaining categories are always extracted deterministically.
func (e *Extractor) ExtractCategories(ctx context.Context, doc *domain.ParsedDocument) *domain.ExtractedItemSet {
	set := &domain.ExtractedItemSet{
		DocumentPath: doc.Path,
		Method:       domain.MethodFallback,
		ExtractedAt:  e.now(),
	}

	if e.aiEnabled() {
		if ok := e.extractSoftCategoriesAI(ctx, doc, set); ok {
			set.Method = domain.MethodAI
		}
	}
	// The model may answer for one category only; each empty category
	// falls back to keyword matching on its own.
	if len(set.Training) == 0 {
		set.Training = e.keywordItems(doc.FullText, e.cfg.Keywords.Training, "training_mention", "mentioned", "")
	}
	if len(set.Feedback) == 0 {
		set.Feedback = e.keywordItems(doc.FullText, e.cfg.Keywords.Feedback, "feedback_mention", "", "neutral")
	}

	set.HRProcesses = applyRules(doc.FullText, hrProcessRules, hrContextRadius)
	set.Community = applyRules(doc.FullText, communityRules, communityContextRadius)
	set.Location = applyRules(doc.FullText, locationRules, locationContextRadius)
	set.Risks = applyRiskPatterns(doc.FullText)

	return set
}

// categoryReplyItem mirrors one element of the JSON array the model
// returns for category extraction.
type categoryReplyItem struct {
	Category  string `json:"category"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Sentiment string `json:"sentiment"`
	Context   string `json:"context"`
}

// extractSoftCategoriesAI asks the model for training and feedback items.
// Returns false when the reply is unusable and the keyword fallback
// should run instead.
func (e *Extractor) extractSoftCategoriesAI(ctx context.Context, doc *domain.ParsedDocument, set *domain.ExtractedItemSet) bool {
	prompt := buildExtractionPrompt(doc)

	reply, err := e.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemp,
	})
	if err != nil {
		logger.Warn("AI extraction failed for %s, using keyword fallback: %v", doc.Path, err)
		return false
	}

	payload := extractJSONPayload(reply, true)
	if payload == "" {
		logger.Debug("AI extraction returned no JSON array for %s", doc.Path)
		return false
	}

	var parsed []categoryReplyItem
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		logger.Debug("AI extraction reply unparseable for %s: %v", doc.Path, err)
		return false
	}
	if len(parsed) == 0 {
		return false
	}

	for _, item := range parsed {
		switch item.Category {
		case string(domain.CategoryTraining), "training":
			set.Training = append(set.Training, domain.ExtractedItem{
				Kind:    "training_request",
				Content: item.Content,
				Status:  item.Status,
				Context: item.Context,
			})
		case string(domain.CategoryFeedback), "feedback":
			set.Feedback = append(set.Feedback, domain.ExtractedItem{
				Kind:      "feedback_comment",
				Content:   item.Content,
				Sentiment: item.Sentiment,
				Context:   item.Context,
			})
		}
	}
	return len(set.Training)+len(set.Feedback) > 0
}

const extractionSystemPrompt = "You are an HR analyst extracting structured items " +
	"from employee development plans. Answer strictly with a single JSON array " +
	"and no other text."

func buildExtractionPrompt(doc *domain.ParsedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Employee: %s\n\nDocument text:\n%s\n\n",
		doc.EmployeeName, truncate(doc.FullText, extractionTextChars))
	b.WriteString("Extract training requests and feedback/motivation signals. " +
		"Respond with a JSON array of objects. Each object has: " +
		`category ("training" or "feedback"), content (string), ` +
		`status (for training: "mentioned", "planned", "in_progress", or "completed"), ` +
		`sentiment (for feedback: "positive", "neutral", or "negative"), ` +
		"context (the sentence the item came from).")
	return b.String()
}

// keywordItems finds whole-word keyword mentions and wraps each in an item.
func (e *Extractor) keywordItems(text string, keywords []string, kind, status, sentiment string) []domain.ExtractedItem {
	var items []domain.ExtractedItem
	for _, kw := range keywords {
		re := keywordPattern(kw)
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2], loc[3]
			items = append(items, domain.ExtractedItem{
				Kind:      kind,
				Content:   text[start:end],
				Status:    status,
				Sentiment: sentiment,
				Context:   contextWindow(text, start, end, keywordContextRadius),
			})
		}
	}
	return items
}
