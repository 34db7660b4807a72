package mcp

import (
	"context"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	resp    *domain.QueryResponse
	popular []domain.PopularQuery
	err     error
}

func (m *mockQueryService) Ask(_ context.Context, query string) *domain.QueryResponse {
	if m.resp != nil {
		return m.resp
	}
	return &domain.QueryResponse{Success: true, Query: query}
}

func (m *mockQueryService) PopularQueries(_ context.Context, _ int) ([]domain.PopularQuery, error) {
	return m.popular, m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisOrchestrator.
type mockAnalysisService struct {
	stats   *domain.RunStats
	summary *domain.InsightSummary
	err     error

	ranAll        bool
	ranRecentDays int
}

func (m *mockAnalysisService) RunAll(_ context.Context, _ bool) (*domain.RunStats, error) {
	m.ranAll = true
	return m.stats, m.err
}

func (m *mockAnalysisService) RunRecent(_ context.Context, days int) (*domain.RunStats, error) {
	m.ranRecentDays = days
	return m.stats, m.err
}

func (m *mockAnalysisService) Summary(_ context.Context, _ int) (*domain.InsightSummary, error) {
	return m.summary, m.err
}

func (m *mockAnalysisService) BuildAttentionReport(stats *domain.RunStats) domain.AttentionReport {
	return domain.AttentionReport{Stats: *stats}
}
