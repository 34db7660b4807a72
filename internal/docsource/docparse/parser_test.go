package docparse

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// buildDocx assembles a minimal docx archive with one paragraph per line.
func buildDocx(t *testing.T, lines []string) []byte {
	t.Helper()

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines {
		doc.WriteString(`<w:p><w:r><w:t>`)
		_ = xmlEscape(&doc, line)
		doc.WriteString(`</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(doc.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func xmlEscape(b *strings.Builder, s string) error {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	_, err := b.WriteString(replacer.Replace(s))
	return err
}

func docxInfo(path string) domain.FileInfo {
	return domain.FileInfo{Path: path, Extension: ".docx"}
}

func TestParser_Parse_DOCX(t *testing.T) {
	p := New(domain.KeywordsConfig{})

	lines := []string{
		"План развития сотрудника",
		"Quarterly checkpoint",
		"Прошла встреча с руководителем 15.03.2025",
		"Согласован план до 2025-04-01",
		"Goals for Q2",
		"Закончить курс по Go",
	}
	raw := buildDocx(t, lines)

	doc, err := p.Parse(bytes.NewReader(raw), docxInfo("docs/Employee development plan - Иванов Иван.docx"))
	require.NoError(t, err)

	assert.Equal(t, "Иванов Иван", doc.EmployeeName)
	assert.Equal(t, strings.Join(lines, "\n"), doc.FullText)

	t.Run("splits sections at headers", func(t *testing.T) {
		require.Contains(t, doc.Sections, "intro")
		require.Contains(t, doc.Sections, "quarterly_checkpoint")
		require.Contains(t, doc.Sections, "goals")
		assert.Equal(t, []string{"План развития сотрудника"}, doc.Sections["intro"])
		assert.Equal(t, []string{
			"Прошла встреча с руководителем 15.03.2025",
			"Согласован план до 2025-04-01",
		}, doc.Sections["quarterly_checkpoint"])
		assert.Equal(t, []string{"Закончить курс по Go"}, doc.Sections["goals"])
		assert.Equal(t, []string{"intro", "quarterly_checkpoint", "goals"}, doc.SectionOrder)
	})

	t.Run("finds dates with context", func(t *testing.T) {
		require.Len(t, doc.DatesFound, 2)
		assert.Equal(t, "15.03.2025", doc.DatesFound[0].Raw)
		assert.Equal(t, "Прошла встреча с руководителем 15.03.2025", doc.DatesFound[0].Context)
		assert.Equal(t, "2025-04-01", doc.DatesFound[1].Raw)
	})

	t.Run("flags meeting sections", func(t *testing.T) {
		assert.Equal(t, []string{"quarterly_checkpoint"}, doc.MeetingSections)
	})
}

func TestParser_Parse_Text(t *testing.T) {
	p := New(domain.KeywordsConfig{})

	content := "Probation period plan\n\nPrepare onboarding review meeting\n  \nFeedback\nHappy with the team\n"
	doc, err := p.Parse(strings.NewReader(content), domain.FileInfo{
		Path:      "docs/Employee development plan - Smith John.txt",
		Extension: ".txt",
	})
	require.NoError(t, err)

	assert.Equal(t, "Smith John", doc.EmployeeName)
	assert.Equal(t, []string{"plans_before_review", "feedback"}, doc.SectionOrder)
	assert.Equal(t, []string{"Prepare onboarding review meeting"}, doc.Sections["plans_before_review"])
	assert.Equal(t, []string{"Happy with the team"}, doc.Sections["feedback"])
	assert.Equal(t, []string{"plans_before_review"}, doc.MeetingSections)
}

func TestParser_Parse_Unsupported(t *testing.T) {
	p := New(domain.KeywordsConfig{})

	for _, ext := range []string{".pdf", ".doc", ".md"} {
		t.Run(ext, func(t *testing.T) {
			_, err := p.Parse(strings.NewReader("content"), domain.FileInfo{Path: "plan" + ext, Extension: ext})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
		})
	}
}

func TestParser_Parse_CorruptDocx(t *testing.T) {
	p := New(domain.KeywordsConfig{})

	_, err := p.Parse(strings.NewReader("not a zip archive"), docxInfo("plan.docx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParse))
}

func TestParser_ConfiguredMeetingKeywords(t *testing.T) {
	p := New(domain.KeywordsConfig{MeetingRU: []string{"синк"}})

	content := "Goals for Q3\nЕженедельный синк с тимлидом\n"
	doc, err := p.Parse(strings.NewReader(content), domain.FileInfo{Path: "план.txt", Extension: ".txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"goals"}, doc.MeetingSections)
}

func TestExtractEmployeeName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Employee development plan - Иванов Иван.docx", "Иванов Иван"},
		{"План развития сотрудника - Петрова Анна.docx", "Петрова Анна"},
		{"Smith John - employee development plan.docx", "Smith John"},
		{"plan.docx", "plan"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEmployeeName(tt.filename))
		})
	}
}
