package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

func sampleReport() domain.AttentionReport {
	return domain.AttentionReport{
		Title:   "Development plan analysis",
		Summary: "Processed 3 document(s), 1 need(s) attention.",
		Stats: domain.RunStats{
			Processed:        3,
			MeetingsDetected: 2,
			MeetingsMissed:   1,
			AttentionRequired: []domain.AttentionCase{
				{Employee: "Иванов Иван", Path: "docs/ivanov.docx", Reason: "possible missed meeting", Confidence: 0.7},
			},
		},
		GeneratedAt: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewNotifier(t *testing.T) {
	_, err := NewNotifier("")
	require.Error(t, err)

	n, err := NewNotifier("https://example.webhook.office.com/x")
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestNotifier_SendAttentionReport(t *testing.T) {
	t.Run("posts a message card", func(t *testing.T) {
		var got messageCard
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte("1"))
		}))
		defer server.Close()

		n, err := NewNotifier(server.URL)
		require.NoError(t, err)

		require.NoError(t, n.SendAttentionReport(context.Background(), sampleReport()))

		assert.Equal(t, "MessageCard", got.Type)
		assert.Equal(t, "Development plan analysis", got.Title)
		require.Len(t, got.Sections, 2)
		assert.Contains(t, got.Sections[1].Text, "Иванов Иван")
		assert.Contains(t, got.Sections[1].Text, "possible missed meeting")

		facts := got.Sections[0].Facts
		require.Len(t, facts, 4)
		assert.Equal(t, "Needs attention", facts[3].Name)
		assert.Equal(t, "1", facts[3].Value)
	})

	t.Run("omits case section when nothing is flagged", func(t *testing.T) {
		report := sampleReport()
		report.Stats.AttentionRequired = nil

		card := buildCard(report)
		assert.Len(t, card.Sections, 1)
	})

	t.Run("caps listed cases", func(t *testing.T) {
		report := sampleReport()
		report.Stats.AttentionRequired = nil
		for i := 0; i < maxReportCases+5; i++ {
			report.Stats.AttentionRequired = append(report.Stats.AttentionRequired, domain.AttentionCase{
				Employee: "Employee", Reason: "requires review",
			})
		}

		card := buildCard(report)
		require.Len(t, card.Sections, 2)
		assert.Contains(t, card.Sections[1].Text, "and 5 more")
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("Invalid payload"))
		}))
		defer server.Close()

		n, err := NewNotifier(server.URL)
		require.NoError(t, err)

		err = n.SendAttentionReport(context.Background(), sampleReport())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Contains(t, err.Error(), "Invalid payload")
	})
}
