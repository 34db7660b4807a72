package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

func textDoc(text string) *domain.ParsedDocument {
	return &domain.ParsedDocument{
		Path:         "docs/plan.docx",
		EmployeeName: "Ivan Ivanov",
		FullText:     text,
		Sections:     map[string][]string{"Notes": {text}},
		SectionOrder: []string{"Notes"},
	}
}

func fallbackExtractor() *Extractor {
	cfg := domain.DefaultConfig()
	cfg.AI.Enabled = false
	return NewExtractor(cfg, nil)
}

func TestExtractCategories_Deterministic(t *testing.T) {
	e := fallbackExtractor()

	t.Run("hr process rules", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Участвовал в собеседованиях кандидатов. Also helped conduct interviews in English."))

		require.NotEmpty(t, set.HRProcesses)
		kinds := map[string]bool{}
		for _, item := range set.HRProcesses {
			kinds[item.Kind] = true
		}
		assert.True(t, kinds["interview_participation"])
	})

	t.Run("risk indicators carry medium severity", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Чувствует усталость и стресс, возможно выгорание."))

		require.GreaterOrEqual(t, len(set.Risks), 3)
		for _, item := range set.Risks {
			assert.Equal(t, "risk_concern", item.Kind)
			assert.Equal(t, "medium", item.Severity)
			assert.NotEmpty(t, item.Context)
		}
	})

	t.Run("location rules find cities and relocation plans", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Сейчас живёт в Алматы, планирует релокацию в 2026."))

		var kinds []string
		for _, item := range set.Location {
			kinds = append(kinds, item.Kind)
		}
		assert.Contains(t, kinds, "location_mentions")
		assert.Contains(t, kinds, "relocation_plans")
	})

	t.Run("community rules", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Выступил на VVT Forum, ведёт публикации в сообществе Viva Engage."))

		var kinds []string
		for _, item := range set.Community {
			kinds = append(kinds, item.Kind)
		}
		assert.Contains(t, kinds, "forum_participation")
		assert.Contains(t, kinds, "viva_engage")
	})

	t.Run("overlapping matches are all kept", func(t *testing.T) {
		// "митап" triggers both the community rule and the training keyword.
		set := e.ExtractCategories(context.Background(), textDoc("Сходил на митап по Go."))
		assert.NotEmpty(t, set.Community)
		assert.NotEmpty(t, set.Training)
	})

	t.Run("clean document yields nothing", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc("Всё идёт по плану."))
		assert.Equal(t, 0, set.Total())
	})
}

func TestExtractCategories_KeywordFallback(t *testing.T) {
	e := fallbackExtractor()

	t.Run("training keywords match whole words", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Хочет пройти обучение по Kubernetes и получить сертификат."))

		require.Len(t, set.Training, 2)
		for _, item := range set.Training {
			assert.Equal(t, "training_mention", item.Kind)
			assert.Equal(t, "mentioned", item.Status)
		}
		assert.Equal(t, domain.MethodFallback, set.Method)
	})

	t.Run("feedback keywords default to neutral sentiment", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc(
			"Обсуждали мотивация и общий настрой."))

		require.NotEmpty(t, set.Feedback)
		assert.Equal(t, "neutral", set.Feedback[0].Sentiment)
	})

	t.Run("keyword inside a longer word does not match", func(t *testing.T) {
		set := e.ExtractCategories(context.Background(), textDoc("Прошёл курсы и переобучение."))
		// "курс" and "обучение" only match as whole words.
		assert.Empty(t, set.Training)
	})
}

func TestExtractCategories_AI(t *testing.T) {
	cfg := domain.DefaultConfig()

	t.Run("model items land in their categories", func(t *testing.T) {
		llm := &mockLLM{reply: `[
			{"category": "training", "content": "Kubernetes certification", "status": "planned", "context": "Wants to get certified."},
			{"category": "feedback", "content": "Feels overloaded", "sentiment": "negative", "context": "Mentioned workload concerns."}
		]`}
		e := NewExtractor(cfg, llm)

		set := e.ExtractCategories(context.Background(), textDoc("Wants Kubernetes certification. Feels overloaded."))
		assert.Equal(t, domain.MethodAI, set.Method)
		require.Len(t, set.Training, 1)
		assert.Equal(t, "planned", set.Training[0].Status)
		require.Len(t, set.Feedback, 1)
		assert.Equal(t, "negative", set.Feedback[0].Sentiment)
	})

	t.Run("category the model skipped falls back to keywords", func(t *testing.T) {
		llm := &mockLLM{reply: `[
			{"category": "feedback", "content": "Недоволен нагрузкой", "sentiment": "negative"}
		]`}
		e := NewExtractor(cfg, llm)

		set := e.ExtractCategories(context.Background(), textDoc(
			"Недоволен нагрузкой. Запланировано обучение по Kubernetes."))
		assert.Equal(t, domain.MethodAI, set.Method)
		require.Len(t, set.Feedback, 1)
		assert.Equal(t, "negative", set.Feedback[0].Sentiment)
		// Training came back empty from the model, so the keyword pass
		// still runs for it.
		require.NotEmpty(t, set.Training)
		assert.Equal(t, "training_mention", set.Training[0].Kind)
	})

	t.Run("empty reply falls back to keywords", func(t *testing.T) {
		llm := &mockLLM{reply: "[]"}
		e := NewExtractor(cfg, llm)

		set := e.ExtractCategories(context.Background(), textDoc("Планирует обучение по Go."))
		assert.Equal(t, domain.MethodFallback, set.Method)
		assert.NotEmpty(t, set.Training)
	})

	t.Run("transport error falls back to keywords", func(t *testing.T) {
		llm := &mockLLM{err: errors.New("timeout")}
		e := NewExtractor(cfg, llm)

		set := e.ExtractCategories(context.Background(), textDoc("Запросил сертификат AWS."))
		assert.Equal(t, domain.MethodFallback, set.Method)
		assert.NotEmpty(t, set.Training)
	})

	t.Run("deterministic categories run regardless of AI", func(t *testing.T) {
		llm := &mockLLM{reply: `[{"category": "training", "content": "Go course", "status": "planned"}]`}
		e := NewExtractor(cfg, llm)

		set := e.ExtractCategories(context.Background(), textDoc("Go course planned. Планирует релокацию."))
		assert.Equal(t, domain.MethodAI, set.Method)
		assert.NotEmpty(t, set.Location)
	})
}

func TestContextWindow(t *testing.T) {
	t.Run("ascii", func(t *testing.T) {
		text := "aaaa MATCH bbbb"
		got := contextWindow(text, 5, 10, 2)
		assert.Equal(t, "a MATCH b", got)
	})

	t.Run("cyrillic respects rune boundaries", func(t *testing.T) {
		text := "планирует релокацию скоро"
		loc := []int{len("планирует "), len("планирует релокацию")}
		got := contextWindow(text, loc[0], loc[1], 3)
		assert.Equal(t, "ет релокацию ск", got)
	})

	t.Run("window clamped at edges", func(t *testing.T) {
		got := contextWindow("abc", 0, 3, 10)
		assert.Equal(t, "abc", got)
	})
}
