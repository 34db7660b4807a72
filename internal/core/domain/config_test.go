package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "docs", cfg.Docs.Directory)
	assert.Contains(t, cfg.Docs.Extensions, ".docx")
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
	assert.Equal(t, 0.7, cfg.Analysis.ConfidenceThreshold)
	assert.Equal(t, 30, cfg.Analysis.RecentWindowDays)
	assert.NotEmpty(t, cfg.Keywords.Training)
	assert.NotEmpty(t, cfg.Keywords.Feedback)
	assert.Contains(t, cfg.Keywords.Training, "обучение")
	assert.Contains(t, cfg.Keywords.MeetingEN, "checkpoint")
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, "idplens.db", cfg.DatabasePath)
}

func TestSchedulerConfig_GetTaskConfig(t *testing.T) {
	cfg := DefaultSchedulerConfig()

	task := cfg.GetTaskConfig(TaskIDRecentAnalysis)
	assert.True(t, task.Enabled)
	assert.Equal(t, 7*24*time.Hour, task.Interval)

	assert.Equal(t, TaskConfig{}, cfg.GetTaskConfig("unknown-task"))

	var empty SchedulerConfig
	assert.Equal(t, TaskConfig{}, empty.GetTaskConfig(TaskIDRecentAnalysis))
}
