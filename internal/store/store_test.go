package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/efficiency.report/internal/config"
	"github.com/banshee-data/efficiency.report/internal/monitoring"
	"github.com/banshee-data/efficiency.report/internal/sweep"
	"github.com/banshee-data/efficiency.report/internal/testutil"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sweeps.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// completedRunner runs a small factor-mode sweep with one missing level so
// both completed and skipped counts are exercised.
func completedRunner(t *testing.T) *sweep.Runner {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	dir := t.TempDir()
	rows := make([][]float64, 10)
	for i := range rows {
		rows[i] = testutil.AcquisitionRow(float64(i), 0, 2.705)
	}
	testutil.WriteCSV(t, dir, "factor_1.csv", rows)
	testutil.WriteCSV(t, dir, "factor_2.csv", rows)

	c := config.NewExperimentConfig(true)
	c.CommonParams[config.ParamReferenceV] = 0.185
	c.CommonParams[config.ParamInitialV] = 2.52
	c.CommonParams[config.ParamSamplingFreq] = 100
	c.ConfigureVoltageExploration([]config.VoltageLevel{
		{DriveV: 6, PowerInput: 5},
		{DriveV: 9, PowerInput: 8},
		{DriveV: 12, PowerInput: 12},
	}, 10.0)

	r := sweep.NewRunner(c)
	require.NoError(t, r.Run(sweep.RunOptions{ZhengPattern: filepath.Join(dir, "factor_%d.csv")}))
	return r
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	// Schema is created on open, so an empty query must succeed.
	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecordAndQueryRun(t *testing.T) {
	db := openTestDB(t)
	r := completedRunner(t)

	runID, err := db.RecordRun(r)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, config.ExplorationVoltage, runs[0].ExplorationType)
	assert.True(t, runs[0].FactorMode)
	assert.Equal(t, 3, runs[0].Levels)
	assert.Equal(t, 2, runs[0].Completed)
	assert.Equal(t, 1, runs[0].Skipped)
	assert.False(t, runs[0].Timestamp.IsZero())

	entries, err := db.RunEntries(runID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].LevelIndex)
	assert.Equal(t, 2, entries[1].LevelIndex)
	assert.Equal(t, 6.0, entries[0].FactorValue)
	assert.Equal(t, 9.0, entries[1].FactorValue)
	assert.Equal(t, "ok", entries[0].DataStatus)
	assert.Greater(t, entries[0].Efficiency, 0.0)
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	r := completedRunner(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.RecordRun(r)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Contains(t, ids, run.RunID)
	}
}

func TestRunEntriesUnknownRun(t *testing.T) {
	db := openTestDB(t)

	entries, err := db.RunEntries("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
