package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "idplens.toml"

// fileConfig mirrors domain.Config with TOML tags. Fields are pointers so
// that absent keys leave the defaults untouched.
type fileConfig struct {
	DatabasePath *string `toml:"database_path"`

	Docs struct {
		Directory  *string  `toml:"directory"`
		Extensions []string `toml:"extensions"`
	} `toml:"docs"`

	Drive struct {
		Enabled         *bool   `toml:"enabled"`
		FolderID        *string `toml:"folder_id"`
		CredentialsPath *string `toml:"credentials_path"`
		TokenPath       *string `toml:"token_path"`
	} `toml:"drive"`

	AI struct {
		Enabled     *bool    `toml:"enabled"`
		APIKey      *string  `toml:"api_key"`
		BaseURL     *string  `toml:"base_url"`
		Model       *string  `toml:"model"`
		MaxTokens   *int     `toml:"max_tokens"`
		Temperature *float64 `toml:"temperature"`
		Timeout     *string  `toml:"timeout"`
	} `toml:"ai"`

	Analysis struct {
		ConfidenceThreshold *float64 `toml:"confidence_threshold"`
		RecentWindowDays    *int     `toml:"recent_window_days"`
	} `toml:"analysis"`

	Keywords struct {
		Training  []string `toml:"training"`
		Feedback  []string `toml:"feedback"`
		HRProcess []string `toml:"hr_process"`
		Community []string `toml:"community"`
		Location  []string `toml:"location"`
		MeetingEN []string `toml:"meeting_en"`
		MeetingRU []string `toml:"meeting_ru"`
	} `toml:"keywords"`

	Notify struct {
		Enabled         *bool   `toml:"enabled"`
		TeamsWebhookURL *string `toml:"teams_webhook_url"`
	} `toml:"notify"`

	Scheduler struct {
		Enabled *bool                     `toml:"enabled"`
		Tasks   map[string]fileTaskConfig `toml:"tasks"`
	} `toml:"scheduler"`
}

// fileTaskConfig is the per-task scheduler override.
type fileTaskConfig struct {
	Enabled  *bool   `toml:"enabled"`
	Interval *string `toml:"interval"`
}

// Load reads configuration from the given TOML file, overlaid onto
// domain.DefaultConfig. If path is empty the loader tries idplens.toml in
// the working directory, then ~/.idplens/config.toml. A missing file
// yields the defaults without error; a malformed file is an error.
//
// The OPENAI_API_KEY environment variable fills the AI key when the file
// does not set one.
func Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	resolved, explicit := resolvePath(path)
	raw, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", resolved, err)
	}

	if err := overlay(&cfg, &fc); err != nil {
		return cfg, fmt.Errorf("applying %s: %w", resolved, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// resolvePath picks the config file to read. The second return reports
// whether the caller named the file explicitly.
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, true
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName, false
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFileName, false
	}
	return filepath.Join(home, ".idplens", "config.toml"), false
}

// overlay copies set fields from the file onto the defaults.
func overlay(cfg *domain.Config, fc *fileConfig) error {
	setString(&cfg.DatabasePath, fc.DatabasePath)

	setString(&cfg.Docs.Directory, fc.Docs.Directory)
	if len(fc.Docs.Extensions) > 0 {
		cfg.Docs.Extensions = fc.Docs.Extensions
	}

	setBool(&cfg.Drive.Enabled, fc.Drive.Enabled)
	setString(&cfg.Drive.FolderID, fc.Drive.FolderID)
	setString(&cfg.Drive.CredentialsPath, fc.Drive.CredentialsPath)
	setString(&cfg.Drive.TokenPath, fc.Drive.TokenPath)

	setBool(&cfg.AI.Enabled, fc.AI.Enabled)
	setString(&cfg.AI.APIKey, fc.AI.APIKey)
	setString(&cfg.AI.BaseURL, fc.AI.BaseURL)
	setString(&cfg.AI.Model, fc.AI.Model)
	setInt(&cfg.AI.MaxTokens, fc.AI.MaxTokens)
	setFloat(&cfg.AI.Temperature, fc.AI.Temperature)
	if fc.AI.Timeout != nil {
		d, err := time.ParseDuration(*fc.AI.Timeout)
		if err != nil {
			return fmt.Errorf("ai.timeout: %w", err)
		}
		cfg.AI.Timeout = d
	}

	setFloat(&cfg.Analysis.ConfidenceThreshold, fc.Analysis.ConfidenceThreshold)
	setInt(&cfg.Analysis.RecentWindowDays, fc.Analysis.RecentWindowDays)

	setSlice(&cfg.Keywords.Training, fc.Keywords.Training)
	setSlice(&cfg.Keywords.Feedback, fc.Keywords.Feedback)
	setSlice(&cfg.Keywords.HRProcess, fc.Keywords.HRProcess)
	setSlice(&cfg.Keywords.Community, fc.Keywords.Community)
	setSlice(&cfg.Keywords.Location, fc.Keywords.Location)
	setSlice(&cfg.Keywords.MeetingEN, fc.Keywords.MeetingEN)
	setSlice(&cfg.Keywords.MeetingRU, fc.Keywords.MeetingRU)

	setBool(&cfg.Notify.Enabled, fc.Notify.Enabled)
	setString(&cfg.Notify.TeamsWebhookURL, fc.Notify.TeamsWebhookURL)

	setBool(&cfg.Scheduler.Enabled, fc.Scheduler.Enabled)
	for id, tc := range fc.Scheduler.Tasks {
		base := cfg.Scheduler.GetTaskConfig(id)
		if tc.Enabled != nil {
			base.Enabled = *tc.Enabled
		}
		if tc.Interval != nil {
			d, err := time.ParseDuration(*tc.Interval)
			if err != nil {
				return fmt.Errorf("scheduler.tasks.%s.interval: %w", id, err)
			}
			base.Interval = d
		}
		if cfg.Scheduler.TaskConfigs == nil {
			cfg.Scheduler.TaskConfigs = make(map[string]domain.TaskConfig)
		}
		cfg.Scheduler.TaskConfigs[id] = base
	}

	return nil
}

// applyEnv fills secrets from the environment when the file left them empty.
func applyEnv(cfg *domain.Config) {
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setSlice(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
