// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/diagram-capture/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRun_RoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	runID, err := store.RecordRun(ctx, RunRecord{
		StartedAt: started,
		SourceDir: "diagrams",
		OutputDir: "images",
		Converted: 2,
		Failed:    1,
		Items: []types.DiagramResult{
			{Name: "arch", Status: types.StatusConverted, OutputPath: "images/arch.jpg", Width: "3000", Height: "12000"},
			{Name: "flow", Status: types.StatusConverted, OutputPath: "images/flow.jpg", Width: "3000", Height: "12000"},
			{Name: "seq", Status: types.StatusFailed, Reason: "renderer timed out after 10s"},
		},
	})
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	r := runs[0]
	assert.Equal(t, runID, r.ID)
	assert.Equal(t, started, r.StartedAt)
	assert.Equal(t, "diagrams", r.SourceDir)
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 2, r.Converted)
	assert.Equal(t, 1, r.Failed)

	items, err := store.RunItems(ctx, runID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "arch", items[0].Name, "items come back in insertion order")
	assert.Equal(t, types.StatusFailed, items[2].Status)
	assert.Equal(t, "renderer timed out after 10s", items[2].Reason)
}

func TestRecentRuns_NewestFirstAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.RecordRun(ctx, RunRecord{
			StartedAt: time.Now(),
			SourceDir: "diagrams",
			OutputDir: "images",
			Converted: i,
		})
		require.NoError(t, err)
	}

	runs, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID, "newest run first")
	assert.Equal(t, 2, runs[0].Converted)
}

func TestRecentRuns_Empty(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.RecordRun(context.Background(), RunRecord{StartedAt: time.Now(), Converted: 1})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Schema creation is idempotent and prior data survives.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestPathFor(t *testing.T) {
	cfg := types.ConvertConfig{OutputDir: "images"}
	assert.Equal(t, filepath.Join("images", DefaultFile), PathFor(cfg))

	cfg.Ledger.Path = "/var/lib/capture/ledger.db"
	assert.Equal(t, "/var/lib/capture/ledger.db", PathFor(cfg))
}
