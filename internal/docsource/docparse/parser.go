// Package docparse extracts structured text from individual development
// plan documents. DOCX and plain-text files are supported; PDF and legacy
// .doc files are recognised but rejected as unsupported.
package docparse

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// introSection collects paragraphs that appear before the first header.
const introSection = "intro"

// sectionRule maps header substrings to a normalised section name.
// Rules are checked in order; the first match wins.
type sectionRule struct {
	name     string
	patterns []string
}

var sectionRules = []sectionRule{
	{"plans_before_review", []string{
		"plans before", "планы до ревью", "планируется",
		"probation period", "испытательный срок",
	}},
	{"performance_review", []string{
		"performance review", "годовое ревью", "annual review",
	}},
	{"quarterly_checkpoint", []string{
		"quarterly", "checkpoint", "чек-поинт", "квартальный",
	}},
	{"goals", []string{
		"goals for", "цели на", "targets", "objectives",
	}},
	{"feedback", []string{
		"feedback", "обратная связь", "что нравится", "what do you like",
	}},
	{"satisfaction", []string{
		"satisfaction", "удовлетворен", "отношение к компании",
	}},
	{"training", []string{
		"training", "обучение", "certification", "сертификация",
	}},
	{"location", []string{
		"location", "локация", "relocation", "релокация",
	}},
}

// baseMeetingIndicators always mark a section as meeting-related,
// regardless of the configured keyword lists.
var baseMeetingIndicators = []string{
	"checkpoint", "review", "meeting", "встреча", "обсуждение",
	"созвон", "беседа", "разговор",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[./]\d{1,2}[./]\d{2,4}`),
	regexp.MustCompile(`\d{2,4}[-/]\d{1,2}[-/]\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)\s+\d{4}`),
}

var (
	planPhraseRe = regexp.MustCompile(`(?i)(Employee development plan|План развития сотрудника)`)
	edgeDashRe   = regexp.MustCompile(`^-\s*|\s*-$`)
)

// Parser turns raw document bytes into a domain.ParsedDocument.
type Parser struct {
	meetingIndicators []string
}

// New creates a parser. Configured meeting keywords extend the built-in
// indicator list used to identify meeting-related sections.
func New(keywords domain.KeywordsConfig) *Parser {
	indicators := make([]string, 0, len(baseMeetingIndicators)+len(keywords.MeetingEN)+len(keywords.MeetingRU))
	seen := make(map[string]bool)
	for _, group := range [][]string{baseMeetingIndicators, keywords.MeetingEN, keywords.MeetingRU} {
		for _, kw := range group {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			indicators = append(indicators, kw)
		}
	}
	return &Parser{meetingIndicators: indicators}
}

// Parse reads one document and extracts its text, sections, dates and
// meeting-related sections. The extension in info decides the format;
// unsupported formats return domain.ErrUnsupportedFormat.
func (p *Parser) Parse(r io.Reader, info domain.FileInfo) (*domain.ParsedDocument, error) {
	ext := strings.ToLower(info.Extension)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(info.Path))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var lines []string
	switch ext {
	case ".docx":
		lines, err = extractDocxParagraphs(raw)
		if err != nil {
			return nil, err
		}
	case ".txt":
		lines = extractTextLines(raw)
	case ".pdf", ".doc":
		return nil, fmt.Errorf("%s: %w", ext, domain.ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%s: %w", ext, domain.ErrUnsupportedFormat)
	}

	doc := &domain.ParsedDocument{
		Path:         info.Path,
		EmployeeName: info.EmployeeName,
		FileModified: info.Modified,
		FileSize:     info.Size,
	}
	if doc.EmployeeName == "" {
		doc.EmployeeName = ExtractEmployeeName(filepath.Base(info.Path))
	}

	doc.FullText = strings.Join(lines, "\n")
	doc.Sections, doc.SectionOrder = splitSections(lines)
	doc.DatesFound = extractDates(lines)
	doc.MeetingSections = p.identifyMeetingSections(doc.Sections, doc.SectionOrder)

	return doc, nil
}

// ExtractEmployeeName derives the employee name from a document file name
// by stripping the extension and the standard plan title phrases.
func ExtractEmployeeName(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.TrimSpace(planPhraseRe.ReplaceAllString(name, ""))
	name = edgeDashRe.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// splitSections assigns each non-header line to the most recent section.
// Header lines open a new section and are not part of its content.
func splitSections(lines []string) (map[string][]string, []string) {
	sections := make(map[string][]string)
	var order []string

	current := introSection
	for _, line := range lines {
		if name := detectSectionHeader(line); name != "" {
			current = name
			if _, ok := sections[current]; !ok {
				sections[current] = []string{}
				order = append(order, current)
			}
			continue
		}
		if _, ok := sections[current]; !ok {
			sections[current] = []string{}
			order = append(order, current)
		}
		sections[current] = append(sections[current], line)
	}

	return sections, order
}

// detectSectionHeader returns the normalised section name when the line
// looks like a section header, or "" otherwise.
func detectSectionHeader(line string) string {
	lower := strings.ToLower(line)
	for _, rule := range sectionRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.name
			}
		}
	}
	return ""
}

// extractDates collects date mentions with the line they appeared on.
func extractDates(lines []string) []domain.DateMention {
	var dates []domain.DateMention
	for _, line := range lines {
		for _, re := range datePatterns {
			for _, match := range re.FindAllString(line, -1) {
				dates = append(dates, domain.DateMention{
					Raw:     match,
					Context: strings.TrimSpace(line),
				})
			}
		}
	}
	return dates
}

// identifyMeetingSections returns sections whose content mentions any
// meeting indicator.
func (p *Parser) identifyMeetingSections(sections map[string][]string, order []string) []string {
	var meeting []string
	for _, name := range order {
		text := strings.ToLower(strings.Join(sections[name], " "))
		for _, indicator := range p.meetingIndicators {
			if strings.Contains(text, indicator) {
				meeting = append(meeting, name)
				break
			}
		}
	}
	return meeting
}

// extractTextLines splits plain text into trimmed non-empty lines.
func extractTextLines(raw []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// extractDocxParagraphs pulls paragraph text out of word/document.xml.
func extractDocxParagraphs(raw []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", domain.ErrParse)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening document.xml: %w", domain.ErrParse)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading document.xml: %w", domain.ErrParse)
		}

		return parseDocumentXML(content)
	}
	return nil, fmt.Errorf("document.xml missing: %w", domain.ErrParse)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts non-empty paragraph text from the document XML.
func parseDocumentXML(content []byte) ([]string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decoding document.xml: %w", domain.ErrParse)
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, r := range para.Runs {
			for _, text := range r.Text {
				b.WriteString(text.Content)
			}
		}
		line := strings.TrimSpace(b.String())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
