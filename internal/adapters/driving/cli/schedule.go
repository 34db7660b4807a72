package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/idplens-cli/internal/core/services"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

var scheduleWatch bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Background analysis scheduling",
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the analysis scheduler",
	Long: `Runs the background scheduler until interrupted. Due tasks trigger
incremental or full analysis runs; attention reports are delivered to
the configured notification channel.

With --watch, documents are also re-analysed as soon as they change on
disk instead of waiting for the next scheduled run.`,
	RunE: runScheduleRun,
}

var scheduleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled task state",
	RunE:  runScheduleStatus,
}

func init() {
	scheduleRunCmd.Flags().BoolVarP(&scheduleWatch, "watch", "w", false, "re-analyse documents as they change")
	scheduleCmd.AddCommand(scheduleRunCmd)
	scheduleCmd.AddCommand(scheduleStatusCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleRun(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if scheduleWatch {
		if err := startWatch(ctx); err != nil {
			return err
		}
	}

	scheduler := services.NewScheduler(
		appConfig.Scheduler,
		appStore.SchedulerStore(),
		analysisService,
		notifierService,
	)

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	errCh := make(chan error, 1)
	go func() {
		errCh <- scheduler.Start(ctx)
	}()

	<-ctx.Done()
	if err := scheduler.Stop(); err != nil {
		return err
	}
	return <-errCh
}

// startWatch re-analyses the recent window whenever a document changes.
func startWatch(ctx context.Context) error {
	if watchSource == nil {
		return fmt.Errorf("document watching not available")
	}

	events, err := watchSource.Watch(ctx)
	if err != nil {
		return fmt.Errorf("starting document watch: %w", err)
	}

	go func() {
		for info := range events {
			logger.Info("Document changed: %s", info.Path)
			if _, err := analysisService.RunRecent(ctx, 1); err != nil {
				logger.Warn("Re-analysis after change failed: %v", err)
			}
		}
	}()
	return nil
}

func runScheduleStatus(cmd *cobra.Command, _ []string) error {
	if err := initServices(cmd.Context()); err != nil {
		return err
	}

	tasks, err := appStore.SchedulerStore().ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tasks: %w", err)
	}

	if len(tasks) == 0 {
		cmd.Println("No scheduled tasks yet. Run 'idplens schedule run' once to initialise them.")
		return nil
	}

	cmd.Println(titleStyle.Render("Scheduled tasks"))
	cmd.Println()
	for _, task := range tasks {
		state := successStyle.Render("enabled")
		if !task.Enabled {
			state = mutedStyle.Render("disabled")
		}
		cmd.Printf("  %s (%s) every %s\n", task.Name, state, task.Interval)
		if !task.LastRun.IsZero() {
			cmd.Printf("      last run %s", task.LastRun.Format("2006-01-02 15:04"))
			if task.LastError != "" {
				cmd.Printf(" %s", errorStyle.Render("failed: "+task.LastError))
			}
			cmd.Println()
		}
		if !task.NextRun.IsZero() && task.Enabled {
			cmd.Println(mutedStyle.Render("      next run " + task.NextRun.Format("2006-01-02 15:04")))
		}
	}
	return nil
}
