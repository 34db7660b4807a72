package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// AskInput is the input schema for the ask_hr tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the HR question in Russian or English"`
}

// AskOutput is the output schema for the ask_hr tool.
type AskOutput struct {
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	Intent       string         `json:"intent"`
	Summary      string         `json:"summary"`
	TotalResults int            `json:"total_results"`
	Results      []ResultOutput `json:"results"`
}

// ResultOutput represents a single query result row.
type ResultOutput struct {
	Employee      string  `json:"employee"`
	Date          string  `json:"date,omitempty"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	Context       string  `json:"context,omitempty"`
	Category      string  `json:"category,omitempty"`
	Status        string  `json:"status,omitempty"`
	Sentiment     string  `json:"sentiment,omitempty"`
	Severity      string  `json:"severity,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
	MeetingMissed bool    `json:"meeting_missed,omitempty"`
	DocumentLink  string  `json:"document_link,omitempty"`
}

// AnalyzeInput is the input schema for the run_analysis tool.
type AnalyzeInput struct {
	Force      bool `json:"force,omitempty" jsonschema:"re-analyse documents even when unchanged"`
	RecentDays int  `json:"recent_days,omitempty" jsonschema:"only analyse documents modified in the last N days (0 = all)"`
}

// AnalyzeOutput is the output schema for the run_analysis tool.
type AnalyzeOutput struct {
	TotalFiles       int      `json:"total_files"`
	Processed        int      `json:"processed"`
	Skipped          int      `json:"skipped"`
	Errors           int      `json:"errors"`
	NewAnalyses      int      `json:"new_analyses"`
	UpdatedAnalyses  int      `json:"updated_analyses"`
	MeetingsDetected int      `json:"meetings_detected"`
	MeetingsMissed   int      `json:"meetings_missed"`
	NeedsAttention   []string `json:"needs_attention,omitempty"`
}

// PopularInput is the input schema for the popular_queries tool.
type PopularInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of query groups (default 5)"`
}

// PopularOutput is the output schema for the popular_queries tool.
type PopularOutput struct {
	Queries []PopularQueryOutput `json:"queries"`
}

// PopularQueryOutput represents one aggregated query group.
type PopularQueryOutput struct {
	Example    string  `json:"example"`
	Intent     string  `json:"intent"`
	Count      int     `json:"count"`
	AvgResults float64 `json:"avg_results"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_hr",
		Description: "Ask a natural-language question about analysed development plans",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "run_analysis",
		Description: "Analyse new or changed development plan documents",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "popular_queries",
		Description: "List the most frequently asked HR questions",
	}, s.handlePopular)
}

// handleAsk handles the ask_hr tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	resp := s.ports.Query.Ask(ctx, input.Query)

	output := AskOutput{
		Success:      resp.Success,
		Error:        resp.Error,
		Intent:       string(resp.Analysis.Intent),
		Summary:      resp.Summary,
		TotalResults: resp.TotalResults,
		Results:      make([]ResultOutput, len(resp.Results)),
	}

	for i, row := range resp.Results {
		out := ResultOutput{
			Employee:      row.EmployeeName,
			Type:          row.Type,
			Content:       row.Content,
			Context:       row.Context,
			Category:      row.Category,
			Status:        row.Status,
			Sentiment:     row.Sentiment,
			Severity:      row.Severity,
			Confidence:    row.Confidence,
			MeetingMissed: row.MeetingMissed,
			DocumentLink:  row.DocumentLink,
		}
		if !row.Date.IsZero() {
			out.Date = row.Date.Format("2006-01-02")
		}
		output.Results[i] = out
	}

	return nil, output, nil
}

// handleAnalyze handles the run_analysis tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	var (
		stats *domain.RunStats
		err   error
	)
	if input.RecentDays > 0 {
		stats, err = s.ports.Analysis.RunRecent(ctx, input.RecentDays)
	} else {
		stats, err = s.ports.Analysis.RunAll(ctx, input.Force)
	}
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	output := AnalyzeOutput{
		TotalFiles:       stats.TotalFiles,
		Processed:        stats.Processed,
		Skipped:          stats.Skipped,
		Errors:           stats.Errors,
		NewAnalyses:      stats.NewAnalyses,
		UpdatedAnalyses:  stats.UpdatedAnalyses,
		MeetingsDetected: stats.MeetingsDetected,
		MeetingsMissed:   stats.MeetingsMissed,
	}
	for _, c := range stats.AttentionRequired {
		output.NeedsAttention = append(output.NeedsAttention,
			fmt.Sprintf("%s: %s", c.Employee, c.Reason))
	}

	return nil, output, nil
}

// handlePopular handles the popular_queries tool invocation.
func (s *Server) handlePopular(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PopularInput,
) (*mcp.CallToolResult, PopularOutput, error) {
	popular, err := s.ports.Query.PopularQueries(ctx, input.Limit)
	if err != nil {
		return nil, PopularOutput{}, err
	}

	output := PopularOutput{Queries: make([]PopularQueryOutput, len(popular))}
	for i, p := range popular {
		output.Queries[i] = PopularQueryOutput{
			Example:    p.Example,
			Intent:     string(p.Intent),
			Count:      p.Count,
			AvgResults: p.AvgResults,
		}
	}

	return nil, output, nil
}
