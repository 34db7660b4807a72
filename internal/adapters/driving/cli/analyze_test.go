package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/domain"
)

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze", analyzeCmd.Use)
}

func TestAnalyzeCmd_Short(t *testing.T) {
	assert.Equal(t, "Analyse development plan documents", analyzeCmd.Short)
}

func TestAnalyzeCmd_HasForceFlag(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("force")
	require.NotNil(t, flag, "force flag should exist")
	assert.Equal(t, "f", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestAnalyzeCmd_HasRecentFlag(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("recent")
	require.NotNil(t, flag, "recent flag should exist")
	assert.Equal(t, "r", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestAnalyzeCmd_RunsFullAnalysis(t *testing.T) {
	analysis, _, cleanup := setupTestServices()
	defer cleanup()

	analysis.stats = &domain.RunStats{
		TotalFiles:       4,
		Processed:        3,
		Skipped:          1,
		NewAnalyses:      2,
		UpdatedAnalyses:  1,
		MeetingsDetected: 2,
		MeetingsMissed:   1,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, analysis.ranAll)
	assert.False(t, analysis.ranForce)
	assert.Contains(t, buf.String(), "Candidates:  4")
	assert.Contains(t, buf.String(), "Processed:   3 (2 new, 1 updated)")
	assert.Contains(t, buf.String(), "2 detected, 1 missed")
	assert.Contains(t, buf.String(), "No documents need attention.")
}

func TestAnalyzeCmd_ForcePassedThrough(t *testing.T) {
	analysis, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--force"})
	defer func() {
		rootCmd.SetArgs(nil)
		analyzeForce = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, analysis.ranForce)
}

func TestAnalyzeCmd_RecentRoutesToRecentRun(t *testing.T) {
	analysis, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "-r", "7"})
	defer func() {
		rootCmd.SetArgs(nil)
		analyzeRecent = 0
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.False(t, analysis.ranAll)
	assert.Equal(t, 7, analysis.ranRecentDays)
}

func TestAnalyzeCmd_ShowsAttentionCases(t *testing.T) {
	analysis, _, cleanup := setupTestServices()
	defer cleanup()

	analysis.stats = &domain.RunStats{
		TotalFiles: 1,
		Processed:  1,
		AttentionRequired: []domain.AttentionCase{
			{
				Employee: "Иванов Иван",
				Path:     "/plans/Иванов Иван.docx",
				Reason:   "possible missed meeting",
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 document(s) need attention:")
	assert.Contains(t, buf.String(), "Иванов Иван: possible missed meeting")
}

func TestAnalyzeCmd_JSONOutput(t *testing.T) {
	analysis, _, cleanup := setupTestServices()
	defer cleanup()

	analysis.stats = &domain.RunStats{TotalFiles: 2, Processed: 2}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"analyze", "--json"})
	defer func() {
		rootCmd.SetArgs(nil)
		analyzeJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\"TotalFiles\": 2")
	assert.Contains(t, buf.String(), "\"Processed\": 2")
}
