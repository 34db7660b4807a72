// Package cli implements the idplens command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/idplens-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/idplens-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/idplens-cli/internal/adapters/driven/notify/teams"
	"github.com/custodia-labs/idplens-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/idplens-cli/internal/core/domain"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
	"github.com/custodia-labs/idplens-cli/internal/core/ports/driving"
	"github.com/custodia-labs/idplens-cli/internal/core/services"
	"github.com/custodia-labs/idplens-cli/internal/docsource"
	"github.com/custodia-labs/idplens-cli/internal/docsource/docparse"
	"github.com/custodia-labs/idplens-cli/internal/docsource/filesystem"
	"github.com/custodia-labs/idplens-cli/internal/docsource/gdrive"
	"github.com/custodia-labs/idplens-cli/internal/logger"
)

// version is overridden at build time via SetVersionInfo.
var version = "dev"

// SetVersionInfo sets the version printed by the version command.
func SetVersionInfo(v string) {
	if v != "" {
		version = v
	}
}

var (
	cfgFile string
	verbose bool
)

// Services wired by initServices. Tests may pre-populate these to run
// commands against mocks.
var (
	appConfig       domain.Config
	appStore        *sqlite.Store
	documentSource  driven.DocumentSource
	watchSource     driven.DocumentWatcher
	llmService      driven.LLMService
	notifierService driven.Notifier
	analysisService driving.AnalysisOrchestrator
	queryService    driving.QueryService
	servicesReady   bool
)

var rootCmd = &cobra.Command{
	Use:   "idplens",
	Short: "Analyse individual development plans",
	Long: `idplens analyses individual development plan documents, tracks whether
development meetings are happening, and answers natural-language HR
questions about training requests, feedback, relocations and more.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default idplens.toml, then ~/.idplens/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices loads configuration and wires the service graph. It is a
// no-op when services are already present.
func initServices(ctx context.Context) error {
	if servicesReady {
		return nil
	}

	cfg, err := configfile.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	appConfig = cfg

	store, err := sqlite.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	appStore = store

	parser := docparse.New(cfg.Keywords)
	local := filesystem.New(cfg.Docs, parser)
	watchSource = local

	var drive driven.DocumentSource
	if cfg.Drive.Enabled {
		driveSource, err := gdrive.NewSource(ctx, cfg.Drive, parser)
		if err != nil {
			return fmt.Errorf("initialising drive source: %w", err)
		}
		drive = driveSource
	}
	documentSource = docsource.NewComposite(local, drive)

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		llm, err := openai.NewLLMService(openai.LLMConfig{
			APIKey:  cfg.AI.APIKey,
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return fmt.Errorf("initialising LLM service: %w", err)
		}
		llmService = llm
	}

	if cfg.Notify.Enabled && cfg.Notify.TeamsWebhookURL != "" {
		n, err := teams.NewNotifier(cfg.Notify.TeamsWebhookURL)
		if err != nil {
			return fmt.Errorf("initialising notifier: %w", err)
		}
		notifierService = n
	}

	extractor := services.NewExtractor(cfg, llmService)
	analysisService = services.NewAnalyzer(cfg, documentSource, store.AnalysisStore(), extractor)
	queryService = services.NewQueryEngine(cfg, store.AnalysisStore(), services.NewClassifier())

	servicesReady = true
	return nil
}

// closeServices releases everything initServices opened.
func closeServices() {
	if llmService != nil {
		_ = llmService.Close()
		llmService = nil
	}
	if documentSource != nil {
		_ = documentSource.Close()
		documentSource = nil
	}
	if appStore != nil {
		_ = appStore.Close()
		appStore = nil
	}
	watchSource = nil
	notifierService = nil
	analysisService = nil
	queryService = nil
	servicesReady = false
}
