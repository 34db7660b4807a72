// Package teams delivers attention reports to a Microsoft Teams channel
// through an incoming webhook.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// DefaultTimeout bounds a webhook delivery.
const DefaultTimeout = 15 * time.Second

// maxReportCases caps how many flagged documents a single card lists.
const maxReportCases = 20

// themeColor is the accent colour of the posted card.
const themeColor = "D9534F"

// Notifier posts MessageCard payloads to a Teams incoming webhook.
type Notifier struct {
	client     *http.Client
	webhookURL string
}

// messageCard is the legacy Teams connector card format, which incoming
// webhooks still accept.
type messageCard struct {
	Type       string        `json:"@type"`
	Context    string        `json:"@context"`
	ThemeColor string        `json:"themeColor"`
	Summary    string        `json:"summary"`
	Title      string        `json:"title"`
	Sections   []cardSection `json:"sections"`
}

type cardSection struct {
	ActivitySubtitle string     `json:"activitySubtitle,omitempty"`
	Text             string     `json:"text,omitempty"`
	Facts            []cardFact `json:"facts,omitempty"`
}

type cardFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewNotifier creates a Teams notifier for the given webhook URL.
func NewNotifier(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("teams: webhook URL is required")
	}
	return &Notifier{
		client:     &http.Client{Timeout: DefaultTimeout},
		webhookURL: webhookURL,
	}, nil
}

// SendAttentionReport posts the report as a MessageCard.
func (n *Notifier) SendAttentionReport(ctx context.Context, report domain.AttentionReport) error {
	card := buildCard(report)

	jsonBody, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("marshal card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("teams webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// buildCard renders the report into the card layout.
func buildCard(report domain.AttentionReport) messageCard {
	stats := report.Stats
	card := messageCard{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: themeColor,
		Summary:    report.Title,
		Title:      report.Title,
		Sections: []cardSection{
			{
				ActivitySubtitle: report.GeneratedAt.Format("2 Jan 2006 15:04"),
				Text:             report.Summary,
				Facts: []cardFact{
					{Name: "Documents analysed", Value: fmt.Sprintf("%d", stats.Processed)},
					{Name: "Meetings detected", Value: fmt.Sprintf("%d", stats.MeetingsDetected)},
					{Name: "Meetings missed", Value: fmt.Sprintf("%d", stats.MeetingsMissed)},
					{Name: "Needs attention", Value: fmt.Sprintf("%d", len(stats.AttentionRequired))},
				},
			},
		},
	}

	if len(stats.AttentionRequired) > 0 {
		var b strings.Builder
		cases := stats.AttentionRequired
		if len(cases) > maxReportCases {
			cases = cases[:maxReportCases]
		}
		for _, c := range cases {
			fmt.Fprintf(&b, "- **%s**: %s\n", c.Employee, c.Reason)
		}
		if extra := len(stats.AttentionRequired) - len(cases); extra > 0 {
			fmt.Fprintf(&b, "- and %d more\n", extra)
		}
		card.Sections = append(card.Sections, cardSection{Text: b.String()})
	}

	return card
}
