package services

import (
	"regexp"
	"unicode/utf8"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// Context window sizes, in characters either side of a match.
const (
	hrContextRadius        = 50
	communityContextRadius = 50
	locationContextRadius  = 30
	riskContextRadius      = 100
	keywordContextRadius   = 50
)

// patternRule pairs a compiled pattern with the item kind it produces.
type patternRule struct {
	kind string
	re   *regexp.Regexp
}

// wordRunes continues or bounds a word across Latin and Cyrillic scripts.
// Go's \w and \b are ASCII-only, so patterns spell the classes out.
const (
	wordTail = `[\p{L}\p{N}_]*`
	wordChar = `[\p{L}\p{N}_]`
)

func rule(kind, pattern string) patternRule {
	return patternRule{kind: kind, re: regexp.MustCompile(`(?i)` + pattern)}
}

// hrProcessRules detect participation in hiring and process improvement.
var hrProcessRules = []patternRule{
	rule("interview_participation", `собеседован`+wordTail),
	rule("interview_participation", `interview`+wordTail),
	rule("interview_participation", `участ`+wordTail+`\s+в\s+собеседовани`+wordTail),
	rule("interview_participation", `проводить\s+собеседовани`+wordTail),
	rule("interview_participation", `conduct\s+interview`+wordTail),
	rule("assessment_participation", `ассессмент`+wordTail),
	rule("assessment_participation", `assessment`+wordTail),
	rule("assessment_participation", `техническ`+wordTail+`\s+оценк`+wordTail),
	rule("assessment_participation", `technical\s+assessment`+wordTail),
	rule("process_improvement", `предложени`+wordTail+`\s+по\s+улучшени`+wordTail),
	rule("process_improvement", `improvement\s+suggest`+wordTail),
	rule("process_improvement", `процесс`+wordTail+`\s+улучшени`+wordTail),
	rule("process_improvement", `process\s+improvement`+wordTail),
	rule("hr_mentions", `HR\s+`+wordChar+wordTail),
	rule("hr_mentions", `отдел\s+кадр`+wordTail),
	rule("hr_mentions", `связаться\s+с\s+HR`),
}

// communityRules detect engagement with internal communities and events.
var communityRules = []patternRule{
	rule("forum_participation", `VVT\s+Forum`),
	rule("forum_participation", `форум`+wordTail),
	rule("forum_participation", `выступ`+wordTail+`\s+на\s+форум`+wordTail),
	rule("forum_participation", `участ`+wordTail+`\s+в\s+форум`+wordTail),
	rule("meetup_participation", `митап`+wordTail),
	rule("meetup_participation", `meetup`+wordTail),
	rule("meetup_participation", `мастер-класс`+wordTail),
	rule("meetup_participation", `workshop`+wordTail),
	rule("community_proposals", `предложени`+wordTail+`\s+по\s+комьюнити`),
	rule("community_proposals", `community\s+suggest`+wordTail),
	rule("community_proposals", `улучшени`+wordTail+`\s+сообществ`+wordTail),
	rule("viva_engage", `Viva\s+Engage`),
	rule("viva_engage", `публикаци`+wordTail+`\s+в\s+сообществ`+wordTail),
	rule("viva_engage", `posting\s+in\s+communities`),
}

// locationRules detect current location and relocation intent.
var locationRules = []patternRule{
	rule("current_location", `текущ`+wordTail+`\s+местоположени`+wordTail),
	rule("current_location", `current\s+location`),
	rule("current_location", `город\s+`+wordChar+`+`),
	rule("current_location", `city\s+`+wordChar+`+`),
	rule("current_location", `страна\s+`+wordChar+`+`),
	rule("relocation_plans", `релокаци`+wordTail),
	rule("relocation_plans", `relocation`),
	rule("relocation_plans", `план`+wordTail+`\s+на\s+переезд`),
	rule("relocation_plans", `планиру`+wordTail+`\s+релокаци`+wordTail),
	rule("relocation_plans", `planning\s+to\s+relocate`),
	rule("location_mentions", `Алматы`),
	rule("location_mentions", `Ташкент`),
	rule("location_mentions", `Москва`),
	rule("location_mentions", `Казахстан`),
	rule("location_mentions", `Узбекистан`),
	rule("location_mentions", `Kazakhstan`),
	rule("location_mentions", `Uzbekistan`),
}

// riskPatterns detect signs of burnout or dissatisfaction.
var riskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)усталость`),
	regexp.MustCompile(`(?i)выгорани` + wordTail),
	regexp.MustCompile(`(?i)перегрузк` + wordTail),
	regexp.MustCompile(`(?i)стресс`),
	regexp.MustCompile(`(?i)дискомфорт`),
	regexp.MustCompile(`(?i)проблем` + wordTail),
	regexp.MustCompile(`(?i)недовольств` + wordTail),
	regexp.MustCompile(`(?i)burnout`),
	regexp.MustCompile(`(?i)stress`),
	regexp.MustCompile(`(?i)overwhelm` + wordTail),
	regexp.MustCompile(`(?i)concern` + wordTail),
	regexp.MustCompile(`(?i)uncomfortable`),
	regexp.MustCompile(`(?i)dissatisf` + wordTail),
}

// applyRules runs a rule table over the text and collects one item per
// match. Overlapping matches from different rules are all kept.
func applyRules(text string, rules []patternRule, radius int) []domain.ExtractedItem {
	var items []domain.ExtractedItem
	for _, r := range rules {
		for _, loc := range r.re.FindAllStringIndex(text, -1) {
			items = append(items, domain.ExtractedItem{
				Kind:    r.kind,
				Content: text[loc[0]:loc[1]],
				Context: contextWindow(text, loc[0], loc[1], radius),
			})
		}
	}
	return items
}

// applyRiskPatterns collects risk indicators with a medium default severity.
func applyRiskPatterns(text string) []domain.ExtractedItem {
	var items []domain.ExtractedItem
	for _, re := range riskPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			items = append(items, domain.ExtractedItem{
				Kind:     "risk_concern",
				Content:  text[loc[0]:loc[1]],
				Severity: "medium",
				Context:  contextWindow(text, loc[0], loc[1], riskContextRadius),
			})
		}
	}
	return items
}

// keywordPattern builds a whole-word matcher for a single keyword that
// works for Cyrillic as well as Latin text.
func keywordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(` +
		regexp.QuoteMeta(keyword) + `)(?:[^\p{L}\p{N}_]|$)`)
}

// contextWindow returns the text around [start, end) widened by radius
// characters on each side, snapped to rune boundaries.
func contextWindow(text string, start, end, radius int) string {
	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}
