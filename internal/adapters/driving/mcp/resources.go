package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for idplens resources.
	uriScheme = "idplens://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the default-window summary.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "summary",
		Name:        "summary",
		Description: "Aggregated insights over the default look-back window",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// Template for an explicit look-back window in days.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "summary/{days}",
		Name:        "summary-period",
		Description: "Aggregated insights over the last N days",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// handleSummaryResource returns the insight summary as JSON. Both the
// static resource and the {days} template route here; the window is
// parsed from the URI when present.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	days, ok := extractDays(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Analysis.Summary(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("building summary: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling summary: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDays parses the look-back window from a URI like
// idplens://summary or idplens://summary/{days}. The bare form yields
// zero, which means the configured default.
func extractDays(uri string) (int, bool) {
	const prefix = uriScheme + "summary"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	rest := strings.TrimPrefix(uri, prefix)
	if rest == "" {
		return 0, true
	}
	if !strings.HasPrefix(rest, "/") {
		return 0, false
	}

	days, err := strconv.Atoi(strings.TrimPrefix(rest, "/"))
	if err != nil || days < 0 {
		return 0, false
	}

	return days, true
}
