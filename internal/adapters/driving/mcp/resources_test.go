package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

func TestExtractDays(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected int
		ok       bool
	}{
		{
			name:     "bare summary URI",
			uri:      "idplens://summary",
			expected: 0,
			ok:       true,
		},
		{
			name:     "summary with window",
			uri:      "idplens://summary/30",
			expected: 30,
			ok:       true,
		},
		{
			name: "invalid prefix",
			uri:  "file://summary/30",
			ok:   false,
		},
		{
			name: "non-numeric window",
			uri:  "idplens://summary/month",
			ok:   false,
		},
		{
			name: "negative window",
			uri:  "idplens://summary/-5",
			ok:   false,
		},
		{
			name: "empty URI",
			uri:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, ok := extractDays(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, days)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSummaryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary as JSON", func(t *testing.T) {
		mockAnalysis := &mockAnalysisService{
			summary: &domain.InsightSummary{
				PeriodDays:       30,
				TotalDocuments:   4,
				Employees:        []string{"Иванов Иван", "Smith John"},
				MeetingsTotal:    4,
				MeetingsOccurred: 3,
				MeetingsMissed:   1,
			},
		}

		ports := &Ports{Analysis: mockAnalysis, Query: &mockQueryService{}}
		server := newTestServer(t, ports)

		req := makeReadResourceRequest("idplens://summary/30")
		result, err := server.handleSummaryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "Иванов Иван")
		assert.Contains(t, result.Contents[0].Text, "Smith John")
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		ports := &Ports{Analysis: &mockAnalysisService{}, Query: &mockQueryService{}}
		server := newTestServer(t, ports)

		req := makeReadResourceRequest("idplens://summary/soon")
		_, err := server.handleSummaryResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("returns error on summary failure", func(t *testing.T) {
		mockAnalysis := &mockAnalysisService{err: errors.New("storage error")}

		ports := &Ports{Analysis: mockAnalysis, Query: &mockQueryService{}}
		server := newTestServer(t, ports)

		req := makeReadResourceRequest("idplens://summary")
		_, err := server.handleSummaryResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "building summary")
	})
}
