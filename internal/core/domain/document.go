package domain

import "time"

// FileInfo describes a candidate document discovered by a DocumentSource.
type FileInfo struct {
	// Path is the source-specific location (local path or gdrive:// URI).
	Path string

	// EmployeeName is derived from the file name.
	EmployeeName string

	// Size is the file size in bytes.
	Size int64

	// Modified is the source's last-modification timestamp.
	Modified time.Time

	// Extension is the lowercase file extension including the dot.
	Extension string
}

// DateMention is a date string found in document text together with the
// line it appeared on.
type DateMention struct {
	// Raw is the matched date string as written in the document.
	Raw string

	// Context is the surrounding line of text.
	Context string
}

// ParsedDocument is the transient result of parsing one IDP document.
// It is consumed read-only by the extraction engine and never persisted
// as-is.
type ParsedDocument struct {
	// Path is the document location.
	Path string

	// EmployeeName is derived from the file name.
	EmployeeName string

	// FullText is the complete plain-text content.
	FullText string

	// Sections maps a normalised section name to its ordered text lines.
	Sections map[string][]string

	// SectionOrder preserves the order sections appeared in the document.
	SectionOrder []string

	// DatesFound lists date mentions with surrounding context.
	DatesFound []DateMention

	// MeetingSections names the sections that look meeting-related.
	MeetingSections []string

	// FileModified is the file's modification timestamp.
	FileModified time.Time

	// FileSize is the file size in bytes.
	FileSize int64
}

// DocumentRecord is the persisted form of an analysed document.
// At most one record exists per Path; re-analysis overwrites content
// fields and the fingerprint in place.
type DocumentRecord struct {
	// Path is the unique document identity.
	Path string

	// EmployeeName is derived from the file name.
	EmployeeName string

	// FullText is the complete plain-text content.
	FullText string

	// Sections maps a section name to its text lines.
	Sections map[string][]string

	// DatesFound lists date mentions found in the text.
	DatesFound []DateMention

	// MeetingSections names the meeting-related sections.
	MeetingSections []string

	// Fingerprint is the SHA-256 hash of the raw file bytes.
	Fingerprint string

	// FileSize is the file size in bytes.
	FileSize int64

	// FileModified is the file's modification timestamp.
	FileModified time.Time

	// AnalyzedAt is when the document was last parsed and analysed.
	AnalyzedAt time.Time
}
