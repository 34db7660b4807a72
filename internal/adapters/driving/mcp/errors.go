// Package mcp provides an MCP (Model Context Protocol) server adapter for
// idplens. It lets AI assistants like Claude query development plan
// analyses and trigger analysis runs.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingAnalysisService is returned when the analysis orchestrator is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
