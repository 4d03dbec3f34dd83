package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/dispatch-console/countdown"
	"github.com/linesmerrill/dispatch-console/storage/sqlite"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.db")
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.EqualError(t, err, "storage path is required")
}

func TestStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)

	_, ok, err := s.Load(ctx, countdown.SyncKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, countdown.SyncKey, "100"))
	require.NoError(t, s.Save(ctx, countdown.SyncKey, "200"))

	v, ok, err := s.Load(ctx, countdown.SyncKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "200", v)

	require.NoError(t, s.Delete(ctx, countdown.SyncKey))
	require.NoError(t, s.Delete(ctx, countdown.SyncKey))
	_, ok, err = s.Load(ctx, countdown.SyncKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CountdownSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)

	target, err := countdown.New(countdown.MaintenanceKey, s).Start(ctx, time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := countdown.New(countdown.MaintenanceKey, reopened).Start(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, target.Equal(again))
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Load(ctx, countdown.SyncKey)
	assert.ErrorIs(t, err, context.Canceled)
}
