package preload_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/preload"
	"github.com/mmcdole/gw2catalog/internal/store"
)

func seededStore(t *testing.T, n int) *store.CacheStore {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "trim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// written in batches so insertion order is 1..n
	for start := 1; start <= n; start += 100 {
		batch := make([]domain.Item, 0, 100)
		for id := start; id < start+100 && id <= n; id++ {
			batch = append(batch, domain.Item{ID: id})
		}
		require.NoError(t, store.PutRecords(s, domain.CollectionItems, batch))
	}
	return s
}

func TestTrimmerCapsCollection(t *testing.T) {
	t.Parallel()

	// Arrange
	s := seededStore(t, 600)
	trimmer := preload.NewTrimmer(s, preload.TrimConfig{MaxEntries: 500, Ceiling: 500}, discardLogger())

	// Act
	removed := trimmer.TrimNow()

	// Assert: most recent 500 remain
	require.Equal(t, 100, removed)
	ids, err := s.IDs(domain.CollectionItems)
	require.NoError(t, err)
	require.Len(t, ids, 500)
	require.Equal(t, 101, ids[0])
	require.Equal(t, 600, ids[499])
}

func TestTrimmerLeavesCacheBelowCeiling(t *testing.T) {
	t.Parallel()

	s := seededStore(t, 600)
	trimmer := preload.NewTrimmer(s, preload.TrimConfig{MaxEntries: 500}, discardLogger())

	require.Zero(t, trimmer.TrimNow())

	n, err := s.Count(domain.CollectionItems)
	require.NoError(t, err)
	require.Equal(t, 600, n)
}

func TestTrimmerStopRunsFinalPass(t *testing.T) {
	t.Parallel()

	s := seededStore(t, 700)
	trimmer := preload.NewTrimmer(s, preload.TrimConfig{MaxEntries: 500, Ceiling: 600, Interval: time.Hour}, discardLogger())

	trimmer.Start(t.Context())
	trimmer.Stop()

	n, err := s.Count(domain.CollectionItems)
	require.NoError(t, err)
	require.Equal(t, 500, n)
}

func TestTrimmerSwallowsStoreErrors(t *testing.T) {
	t.Parallel()

	s := seededStore(t, 100)
	require.NoError(t, s.Close())

	trimmer := preload.NewTrimmer(s, preload.TrimConfig{MaxEntries: 1, Ceiling: 1}, discardLogger())
	require.NotPanics(t, func() {
		require.Zero(t, trimmer.TrimNow())
	})
}
