package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// intentGroup matches a query against one intent. Groups are checked
// in order and the first hit wins.
type intentGroup struct {
	intent     domain.Intent
	indicators []string
	categories []domain.Category
}

// intentGroups is the priority-ordered intent table. Queries that hit
// no group classify as general.
var intentGroups = []intentGroup{
	{
		intent: domain.IntentTraining,
		indicators: []string{
			"обучение", "training", "сертификат", "курс", "митап", "workshop",
		},
		categories: []domain.Category{domain.CategoryTraining},
	},
	{
		intent: domain.IntentFeedback,
		indicators: []string{
			"удовлетворен", "satisfaction", "мотивация", "выгорание",
			"перегрузка", "дискомфорт", "проблем", "недовольств", "стресс",
			"комфорт", "отношение", "нравится", "не нравится", "устраивает",
			"не устраивает", "вызывает", "беспокоит", "волнует", "тревожит",
			"расстраивает", "огорчает",
		},
		categories: []domain.Category{domain.CategoryFeedback, domain.CategoryRisk},
	},
	{
		intent: domain.IntentMeetings,
		indicators: []string{
			"встреча", "meeting", "пропуск", "missed", "checkpoint",
		},
	},
	{
		intent: domain.IntentRelocation,
		indicators: []string{
			"релокация", "relocation", "переезд", "локация",
		},
		categories: []domain.Category{domain.CategoryLocation},
	},
	{
		intent: domain.IntentHRProcess,
		indicators: []string{
			"собеседование", "interview", "процесс", "предложение",
		},
		categories: []domain.Category{domain.CategoryHRProcess},
	},
}

// timePattern converts a matched duration phrase into a day count.
type timePattern struct {
	re *regexp.Regexp
	// daysPerUnit scales the captured number; fixedDays is used when the
	// pattern captures nothing.
	daysPerUnit int
	fixedDays   int
}

var timePatterns = []timePattern{
	{re: regexp.MustCompile(`за\s+последни[ехй]\s+(\d+)\s+месяц[аеов]*`), daysPerUnit: 30},
	{re: regexp.MustCompile(`за\s+последни[ехй]\s+(\d+)\s+недел[иьяю]*`), daysPerUnit: 7},
	{re: regexp.MustCompile(`за\s+последни[ехй]\s+(\d+)\s+дн[ейяь]*`), daysPerUnit: 1},
	{re: regexp.MustCompile(`последни[ехй]\s+(\d+)\s+месяц[аеов]*`), daysPerUnit: 30},
	{re: regexp.MustCompile(`последни[ехй]\s+(\d+)\s+недел[иьяю]*`), daysPerUnit: 7},
	{re: regexp.MustCompile(`last\s+(\d+)\s+months?`), daysPerUnit: 30},
	{re: regexp.MustCompile(`last\s+(\d+)\s+weeks?`), daysPerUnit: 7},
	{re: regexp.MustCompile(`last\s+(\d+)\s+days?`), daysPerUnit: 1},
	{re: regexp.MustCompile(`(\d+)\s+месяц[аеов]*`), daysPerUnit: 30},
	{re: regexp.MustCompile(`(\d+)\s+недел[иьяю]*`), daysPerUnit: 7},
	{re: regexp.MustCompile(`полгода`), fixedDays: 180},
	{re: regexp.MustCompile(`год`), fixedDays: 365},
}

var (
	cyrillicNameRe = regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+`)
	latinNameRe    = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
	tokenRe        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// stopWords are question scaffolding excluded from extracted keywords.
var stopWords = map[string]struct{}{
	"кто": {}, "что": {}, "где": {}, "когда": {}, "как": {},
	"какие": {}, "который": {}, "которая": {}, "которые": {},
	"за": {}, "последние": {}, "месяца": {}, "недели": {}, "дней": {},
	"года": {}, "сотрудники": {}, "сотрудник": {},
	"who": {}, "what": {}, "where": {}, "when": {}, "how": {},
	"which": {}, "last": {}, "months": {}, "weeks": {}, "days": {},
	"years": {}, "employees": {}, "employee": {},
}

// Classifier determines what a natural-language question is asking for.
type Classifier struct{}

// NewClassifier creates a query intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify maps a question to an intent with its categories, time
// window, employee names, and content keywords.
func (c *Classifier) Classify(query string) domain.QueryIntent {
	lower := strings.ToLower(query)

	result := domain.QueryIntent{
		Intent:         domain.IntentGeneral,
		TimeWindowDays: timeWindow(lower),
		EmployeeNames:  employeeNames(query),
		Keywords:       contentKeywords(lower),
	}

	for _, g := range intentGroups {
		if containsAny(lower, g.indicators) {
			result.Intent = g.intent
			result.Categories = g.categories
			break
		}
	}
	return result
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// timeWindow extracts a look-back window in days; 0 means no window.
func timeWindow(lower string) int {
	for _, p := range timePatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if p.fixedDays > 0 {
			return p.fixedDays
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n * p.daysPerUnit
	}
	return 0
}

// employeeNames finds capitalised first-plus-last name pairs.
func employeeNames(query string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{cyrillicNameRe, latinNameRe} {
		for _, m := range re.FindAllString(query, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			names = append(names, m)
		}
	}
	return names
}

// contentKeywords tokenises the query and drops stop words and short tokens.
func contentKeywords(lower string) []string {
	var keywords []string
	for _, tok := range tokenRe.FindAllString(lower, -1) {
		if len([]rune(tok)) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}
