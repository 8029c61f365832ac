package audit

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-serving-api/internal/core/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRecord(i int, ts time.Time) domain.PredictionRecord {
	return domain.PredictionRecord{
		ID:            fmt.Sprintf("rec-%03d", i),
		ModelVersion:  "v1",
		Features:      []float64{5.1, 3.5, 1.4, 0.2},
		Prediction:    i % 3,
		ClassName:     fmt.Sprintf("class_%d", i%3),
		ConfidenceMax: 0.9,
		Timestamp:     ts,
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(testRecord(i, base.Add(time.Duration(i)*time.Second))))
	}

	records, err := store.Recent(3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rec-004", records[0].ID)
	assert.Equal(t, "rec-003", records[1].ID)
	assert.Equal(t, "rec-002", records[2].ID)

	got := records[0]
	assert.Equal(t, "v1", got.ModelVersion)
	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, got.Features)
	assert.InDelta(t, 0.9, got.ConfidenceMax, 1e-9)
	assert.True(t, got.Timestamp.Equal(base.Add(4*time.Second)))
}

func TestStoreRecentMoreThanStored(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC()
	require.NoError(t, store.Record(testRecord(0, base)))
	require.NoError(t, store.Record(testRecord(1, base.Add(time.Second))))

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "rec-001", records[0].ID)
}

func TestStoreRecentEmpty(t *testing.T) {
	store := openTestStore(t)

	records, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStoreRecentNonPositiveLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(testRecord(i, base.Add(time.Duration(i)*time.Second))))
	}

	records, err := store.Recent(0)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestStoreOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(testRecord(0, time.Now().UTC())))
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(testRecord(0, time.Now().UTC())))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-000", records[0].ID)
}
