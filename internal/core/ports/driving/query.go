package driving

import (
	"context"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// QueryService answers natural-language questions about stored analyses.
// This is used by CLI and MCP adapters.
type QueryService interface {
	// Ask classifies the question, searches stored analyses, and returns
	// ranked results with a summary. The response is never nil; failures
	// are reported through its Success and Error fields.
	Ask(ctx context.Context, query string) *domain.QueryResponse

	// PopularQueries aggregates the query log into the most frequently
	// asked question shapes.
	PopularQueries(ctx context.Context, limit int) ([]domain.PopularQuery, error)
}
