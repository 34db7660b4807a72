package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about analysed plans",
	Long: `Answers a natural-language HR question against the stored analyses.

Questions may be asked in Russian or English, e.g.:
  idplens query "Кто запрашивал обучение в последние 3 месяца?"
  idplens query "Who missed their development meetings?"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var popularCmd = &cobra.Command{
	Use:   "popular",
	Short: "Show the most frequently asked questions",
	RunE:  runPopular,
}

var popularLimit int

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the response as JSON")
	popularCmd.Flags().IntVarP(&popularLimit, "limit", "n", 5, "maximum number of query groups")
	queryCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	resp := queryService.Ask(cmd.Context(), args[0])

	if queryJSON {
		return outputJSON(cmd, resp)
	}

	if !resp.Success {
		return fmt.Errorf("query failed: %s", resp.Error)
	}

	outputQueryResponse(cmd, resp)
	return nil
}

func outputQueryResponse(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println(titleStyle.Render(resp.Summary))
	cmd.Println(mutedStyle.Render(fmt.Sprintf("Intent: %s", resp.Analysis.Intent)))
	cmd.Println()

	for i, row := range resp.Results {
		cmd.Printf("  [%d] %s", i+1, row.EmployeeName)
		if !row.Date.IsZero() {
			cmd.Printf(" %s", mutedStyle.Render(row.Date.Format("2006-01-02")))
		}
		cmd.Println()
		cmd.Printf("      %s: %s\n", row.Type, row.Content)
		if row.MeetingMissed {
			cmd.Println(warningStyle.Render("      meeting missed"))
		}
		if row.Context != "" {
			cmd.Println(mutedStyle.Render("      " + row.Context))
		}
		cmd.Println()
	}
}

func runPopular(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	popular, err := queryService.PopularQueries(cmd.Context(), popularLimit)
	if err != nil {
		return fmt.Errorf("loading popular queries: %w", err)
	}

	if len(popular) == 0 {
		cmd.Println("No queries logged yet.")
		return nil
	}

	cmd.Println(titleStyle.Render("Popular questions"))
	cmd.Println()
	for _, p := range popular {
		cmd.Printf("  %dx [%s] %s\n", p.Count, p.Intent, p.Example)
		cmd.Println(mutedStyle.Render(fmt.Sprintf("      avg %.1f result(s)", p.AvgResults)))
	}
	return nil
}
