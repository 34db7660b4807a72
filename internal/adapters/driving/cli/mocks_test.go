package cli

import (
	"context"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisOrchestrator.
type mockAnalysisService struct {
	stats   *domain.RunStats
	summary *domain.InsightSummary
	err     error

	ranAll        bool
	ranForce      bool
	ranRecentDays int
}

func (m *mockAnalysisService) RunAll(_ context.Context, force bool) (*domain.RunStats, error) {
	m.ranAll = true
	m.ranForce = force
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

// setupTestServices wires mock services into the command graph so commands
// can run without configuration, storage, or document sources. The returned
// cleanup restores the uninitialised state.
func setupTestServices() (*mockAnalysisService, *mockQueryService, func()) {
	analysis := &mockAnalysisService{
		stats:   &domain.RunStats{},
		summary: &domain.InsightSummary{},
	}
	query := &mockQueryService{}

	analysisService = analysis
	queryService = query
	servicesReady = true

	return analysis, query, func() {
		closeServices()
	}
}
