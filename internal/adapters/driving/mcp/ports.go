package mcp

import (
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs the document analysis pipeline.
	Analysis driving.AnalysisOrchestrator

	// Query answers natural-language HR questions.
	Query driving.QueryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
