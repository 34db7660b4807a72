package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

func TestClassifier_Intents(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		query      string
		intent     domain.Intent
		categories []domain.Category
	}{
		{
			name:       "training in russian",
			query:      "Кто запрашивал обучение?",
			intent:     domain.IntentTraining,
			categories: []domain.Category{domain.CategoryTraining},
		},
		{
			name:       "training in english",
			query:      "Who asked for a workshop?",
			intent:     domain.IntentTraining,
			categories: []domain.Category{domain.CategoryTraining},
		},
		{
			name:       "feedback spans two categories",
			query:      "У кого выгорание?",
			intent:     domain.IntentFeedback,
			categories: []domain.Category{domain.CategoryFeedback, domain.CategoryRisk},
		},
		{
			name:   "meetings",
			query:  "У кого была встреча с руководителем?",
			intent: domain.IntentMeetings,
		},
		{
			name:   "missed meetings in english",
			query:  "Who missed their checkpoint?",
			intent: domain.IntentMeetings,
		},
		{
			name:       "relocation",
			query:      "Who is planning relocation?",
			intent:     domain.IntentRelocation,
			categories: []domain.Category{domain.CategoryLocation},
		},
		{
			name:       "hr processes",
			query:      "Кто проводил собеседование с кандидатами?",
			intent:     domain.IntentHRProcess,
			categories: []domain.Category{domain.CategoryHRProcess},
		},
		{
			name:   "general",
			query:  "Что нового у команды?",
			intent: domain.IntentGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.categories, got.Categories)
		})
	}
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	c := NewClassifier()

	// "обучение" (training) and "выгорание" (feedback) both occur; the
	// training group is checked first, so it wins.
	got := c.Classify("Кто запрашивал обучение из-за выгорания?")
	assert.Equal(t, domain.IntentTraining, got.Intent)
	assert.Equal(t, []domain.Category{domain.CategoryTraining}, got.Categories)
}

func TestClassifier_TimeWindow(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		query string
		days  int
	}{
		{"months with preposition", "обучение за последние 3 месяца", 90},
		{"weeks", "встречи за последние 2 недели", 14},
		{"days", "что было за последние 10 дней", 10},
		{"months without preposition", "последние 2 месяца", 60},
		{"english months", "training in the last 6 months", 180},
		{"english weeks", "meetings in the last 3 weeks", 21},
		{"bare number of months", "обучение 4 месяца", 120},
		{"half a year", "релокация за полгода", 180},
		{"year", "встречи за год", 365},
		{"no window", "кто запрашивал обучение", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query)
			assert.Equal(t, tt.days, got.TimeWindowDays)
		})
	}
}

func TestClassifier_EmployeeNames(t *testing.T) {
	c := NewClassifier()

	t.Run("cyrillic full name", func(t *testing.T) {
		got := c.Classify("Что с обучением у Иван Петров?")
		assert.Equal(t, []string{"Иван Петров"}, got.EmployeeNames)
	})

	t.Run("latin full name", func(t *testing.T) {
		got := c.Classify("What about John Smith training?")
		assert.Equal(t, []string{"John Smith"}, got.EmployeeNames)
	})

	t.Run("duplicates removed", func(t *testing.T) {
		got := c.Classify("Иван Петров и снова Иван Петров")
		assert.Equal(t, []string{"Иван Петров"}, got.EmployeeNames)
	})

	t.Run("no names", func(t *testing.T) {
		got := c.Classify("кто запрашивал обучение")
		assert.Empty(t, got.EmployeeNames)
	})
}

func TestClassifier_Keywords(t *testing.T) {
	c := NewClassifier()

	t.Run("stop words and short tokens dropped", func(t *testing.T) {
		got := c.Classify("Кто запрашивал обучение за последние месяцы")
		assert.Contains(t, got.Keywords, "запрашивал")
		assert.Contains(t, got.Keywords, "обучение")
		assert.NotContains(t, got.Keywords, "кто")
		assert.NotContains(t, got.Keywords, "за")
	})

	t.Run("lowercased", func(t *testing.T) {
		got := c.Classify("RELOCATION plans")
		assert.Contains(t, got.Keywords, "relocation")
	})
}
