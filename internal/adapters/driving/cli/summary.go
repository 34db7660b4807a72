package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

var (
	summaryDays int
	summaryJSON bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise analyses over a period",
	Long: `Aggregates the stored analyses from the last N days into period
insights: meeting coverage, attention cases, training requests,
feedback concerns and relocation plans.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&summaryDays, "days", "d", 0, "look-back window in days (default from config)")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	summary, err := analysisService.Summary(cmd.Context(), summaryDays)
	if err != nil {
		return fmt.Errorf("building summary: %w", err)
	}

	if summaryJSON {
		return outputJSON(cmd, summary)
	}

	outputSummary(cmd, summary)
	return nil
}

func outputSummary(cmd *cobra.Command, s *domain.InsightSummary) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("Last %d day(s)", s.PeriodDays)))
	cmd.Println()
	cmd.Printf("  Documents:  %d\n", s.TotalDocuments)
	cmd.Printf("  Employees:  %d", len(s.Employees))
	if len(s.Employees) > 0 && len(s.Employees) <= 10 {
		cmd.Printf(" %s", mutedStyle.Render("("+strings.Join(s.Employees, ", ")+")"))
	}
	cmd.Println()
	cmd.Printf("  Meetings:   %d occurred, %d missed of %d\n",
		s.MeetingsOccurred, s.MeetingsMissed, s.MeetingsTotal)

	printInsightGroup(cmd, "Training requests", s.TrainingRequests)
	printInsightGroup(cmd, "Feedback concerns", s.FeedbackConcerns)
	printInsightGroup(cmd, "Relocation plans", s.RelocationPlans)

	if len(s.AttentionCases) > 0 {
		cmd.Println()
		cmd.Println(warningStyle.Render(fmt.Sprintf("%d case(s) need attention:", len(s.AttentionCases))))
		for _, c := range s.AttentionCases {
			cmd.Printf("  - %s: %s\n", c.Employee, c.Reason)
		}
	}
}

func printInsightGroup(cmd *cobra.Command, label string, items []domain.InsightItem) {
	if len(items) == 0 {
		return
	}
	cmd.Println()
	cmd.Printf("%s:\n", label)
	for _, item := range items {
		cmd.Printf("  - %s: %s\n", item.Employee, item.Content)
	}
}
