package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

var (
	analyzeForce  bool
	analyzeRecent int
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse development plan documents",
	Long: `Scans the configured document sources, analyses new or changed
development plans, and stores the results.

Unchanged documents are skipped based on a content fingerprint; use
--force to re-analyse everything. Use --recent to restrict the run to
documents modified in the last N days.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "re-analyse unchanged documents")
	analyzeCmd.Flags().IntVarP(&analyzeRecent, "recent", "r", 0, "only documents modified in the last N days")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output run statistics as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	var stats *domain.RunStats
	var err error
	if analyzeRecent > 0 {
		stats, err = analysisService.RunRecent(cmd.Context(), analyzeRecent)
	} else {
		stats, err = analysisService.RunAll(cmd.Context(), analyzeForce)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return outputJSON(cmd, stats)
	}

	outputRunStats(cmd, stats)
	return nil
}

func outputRunStats(cmd *cobra.Command, stats *domain.RunStats) {
	cmd.Println(titleStyle.Render("Analysis complete"))
	cmd.Println()
	cmd.Printf("  Candidates:  %d\n", stats.TotalFiles)
	cmd.Printf("  Processed:   %d (%d new, %d updated)\n",
		stats.Processed, stats.NewAnalyses, stats.UpdatedAnalyses)
	cmd.Printf("  Skipped:     %d\n", stats.Skipped)
	if stats.Errors > 0 {
		cmd.Println(errorStyle.Render(fmt.Sprintf("  Errors:      %d", stats.Errors)))
	}
	cmd.Printf("  Meetings:    %d detected, %d missed\n",
		stats.MeetingsDetected, stats.MeetingsMissed)

	if len(stats.AttentionRequired) == 0 {
		cmd.Println()
		cmd.Println(successStyle.Render("No documents need attention."))
		return
	}

	cmd.Println()
	cmd.Println(warningStyle.Render(fmt.Sprintf("%d document(s) need attention:", len(stats.AttentionRequired))))
	for _, c := range stats.AttentionRequired {
		cmd.Printf("  - %s: %s\n", c.Employee, c.Reason)
		cmd.Println(mutedStyle.Render("    " + c.Path))
	}
}

// outputJSON prints any value as indented JSON.
func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
