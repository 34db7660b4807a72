package domain

import "time"

// Config is the full application configuration. It is loaded once at
// startup and passed to constructors; services never mutate it.
type Config struct {
	// Docs configures the local document source.
	Docs DocsConfig

	// Drive configures the Google Drive document source.
	Drive DriveConfig

	// AI configures the language model used for analysis.
	AI AIConfig

	// Analysis configures the analysis pipeline.
	Analysis AnalysisConfig

	// Keywords holds the keyword lists used by deterministic extraction
	// and query classification.
	Keywords KeywordsConfig

	// Notify configures outbound notifications.
	Notify NotifyConfig

	// Scheduler configures background tasks.
	Scheduler SchedulerConfig

	// DatabasePath is the path to the sqlite database file.
	DatabasePath string
}

// DocsConfig configures the local filesystem document source.
type DocsConfig struct {
	// Directory is the root directory containing development plans.
	Directory string

	// Extensions lists the file extensions to consider.
	Extensions []string
}

// DriveConfig configures the Google Drive document source.
type DriveConfig struct {
	// Enabled toggles the Drive source on or off.
	Enabled bool

	// FolderID is the Drive folder containing development plans.
	FolderID string

	// CredentialsPath is the path to the OAuth client credentials file.
	CredentialsPath string

	// TokenPath is the path where the OAuth token is cached.
	TokenPath string
}

// AIConfig configures the language model adapter.
type AIConfig struct {
	// Enabled toggles AI analysis. When false, or when no API key is set,
	// the deterministic fallback path is used.
	Enabled bool

	// APIKey authenticates requests to the model provider.
	APIKey string

	// BaseURL is the API base URL for an OpenAI-compatible provider.
	BaseURL string

	// Model is the model identifier to use.
	Model string

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64

	// Timeout bounds each request to the provider.
	Timeout time.Duration
}

// AnalysisConfig configures the analysis pipeline.
type AnalysisConfig struct {
	// ConfidenceThreshold is the minimum verdict confidence below which
	// a document is flagged for attention.
	ConfidenceThreshold float64

	// RecentWindowDays is the default look-back window for incremental
	// runs and period summaries.
	RecentWindowDays int
}

// KeywordsConfig holds the bilingual keyword lists used by deterministic
// extraction and the keyword fallback for AI categories.
type KeywordsConfig struct {
	Training  []string
	Feedback  []string
	HRProcess []string
	Community []string
	Location  []string

	// MeetingEN and MeetingRU identify meeting-related section headings.
	MeetingEN []string
	MeetingRU []string
}

// NotifyConfig configures outbound notifications.
type NotifyConfig struct {
	// Enabled toggles notifications on or off.
	Enabled bool

	// TeamsWebhookURL is the Microsoft Teams incoming webhook URL.
	TeamsWebhookURL string
}

// DefaultConfig returns the configuration used when no file overrides
// are present.
func DefaultConfig() Config {
	return Config{
		Docs: DocsConfig{
			Directory:  "docs",
			Extensions: []string{".docx", ".txt"},
		},
		AI: AIConfig{
			Enabled:     true,
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			MaxTokens:   2000,
			Temperature: 0.3,
			Timeout:     120 * time.Second,
		},
		Analysis: AnalysisConfig{
			ConfidenceThreshold: 0.7,
			RecentWindowDays:    30,
		},
		Keywords: KeywordsConfig{
			Training: []string{
				"обучение", "сертификат", "курс", "workshop",
				"training", "certification", "course", "masterclass",
				"митап", "meetup",
			},
			Feedback: []string{
				"satisfaction", "удовлетворен", "мотивация", "усталость",
				"выгорание", "дискомфорт", "отношение к компании",
			},
			HRProcess: []string{
				"собеседование", "interview", "ассессмент", "assessment",
				"предложение по улучшению", "improvement suggestion",
			},
			Community: []string{
				"форум", "forum", "митап", "meetup", "комьюнити",
				"community", "Viva Engage",
			},
			Location: []string{
				"релокация", "relocation", "переезд", "местоположение",
				"location", "город", "city",
			},
			MeetingEN: []string{
				"checkpoint", "1-on-1", "one-on-one", "review meeting",
				"development meeting",
			},
			MeetingRU: []string{
				"чекпоинт", "встреча", "обсуждение", "ревью",
			},
		},
		Notify: NotifyConfig{
			Enabled: false,
		},
		Scheduler:    DefaultSchedulerConfig(),
		DatabasePath: "idplens.db",
	}
}
