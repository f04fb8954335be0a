package preload_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/preload"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequence(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

func staticIDs(ids []int) preload.IDsFunc {
	return func(context.Context) ([]int, error) { return ids, nil }
}

// batchRecorder records the first id of every batch it is handed.
type batchRecorder struct {
	mu     sync.Mutex
	starts []int
}

func (r *batchRecorder) record(batch []int) {
	r.mu.Lock()
	r.starts = append(r.starts, batch[0])
	r.mu.Unlock()
}

func (r *batchRecorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.starts...)
}

func TestLoaderRunsEveryBatch(t *testing.T) {
	t.Parallel()

	// Arrange: 1000 ids, 200 per batch, two priming batches
	rec := &batchRecorder{}
	var progress, totals []int
	var progressMu sync.Mutex

	loader := preload.NewLoader(preload.Config{
		Name:         "items",
		BatchSize:    200,
		PrimeBatches: 2,
		FailureDelay: time.Millisecond,
	}, staticIDs(sequence(1000)), func(_ context.Context, batch []int) error {
		rec.record(batch)
		return nil
	}, discardLogger())
	loader.OnProgress(func(loaded, total int) {
		progressMu.Lock()
		progress = append(progress, loaded)
		totals = append(totals, total)
		progressMu.Unlock()
	})

	// Act
	require.NoError(t, loader.Start(t.Context()))

	// Assert: priming finished before Start returned
	p := loader.Progress()
	require.GreaterOrEqual(t, p.Loaded, 400)
	require.Contains(t, []domain.LoadState{domain.LoadBackground, domain.LoadComplete}, p.State)

	loader.Wait()
	p = loader.Progress()
	require.Equal(t, domain.LoadComplete, p.State)
	require.Equal(t, 1000, p.Loaded)
	require.Equal(t, 1000, p.Total)
	require.Zero(t, p.Failed)
	require.Equal(t, []int{1, 201, 401, 601, 801}, rec.seen())

	progressMu.Lock()
	defer progressMu.Unlock()
	require.Equal(t, []int{200, 400, 600, 800, 1000}, progress)
	require.Equal(t, []int{1000, 1000, 1000, 1000, 1000}, totals)
}

func TestLoaderSkipsFailedBatch(t *testing.T) {
	t.Parallel()

	// Arrange: the second batch fails
	rec := &batchRecorder{}
	loader := preload.NewLoader(preload.Config{
		Name:         "recipes",
		BatchSize:    50,
		PrimeBatches: 1,
		FailureDelay: time.Millisecond,
	}, staticIDs(sequence(200)), func(_ context.Context, batch []int) error {
		rec.record(batch)
		if batch[0] == 51 {
			return errors.New("remote hiccup")
		}
		return nil
	}, discardLogger())

	// Act
	require.NoError(t, loader.Start(t.Context()))
	loader.Wait()

	// Assert: the run went past the failure and still counted it
	p := loader.Progress()
	require.Equal(t, domain.LoadComplete, p.State)
	require.Equal(t, 200, p.Loaded)
	require.Equal(t, 1, p.Failed)
	require.Equal(t, []int{1, 51, 101, 151}, rec.seen())
}

func TestLoaderStopCancelsBackgroundRun(t *testing.T) {
	t.Parallel()

	// Arrange: the first background batch blocks until cancelled
	rec := &batchRecorder{}
	started := make(chan struct{})
	loader := preload.NewLoader(preload.Config{
		Name:         "items",
		BatchSize:    200,
		PrimeBatches: 1,
	}, staticIDs(sequence(1000)), func(ctx context.Context, batch []int) error {
		rec.record(batch)
		if batch[0] == 201 {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}, discardLogger())

	require.NoError(t, loader.Start(t.Context()))
	<-started

	// Act
	require.ErrorIs(t, loader.Start(t.Context()), preload.ErrAlreadyRunning)
	loader.Stop()

	// Assert: nothing recorded after cancellation
	p := loader.Progress()
	require.Equal(t, domain.LoadCancelled, p.State)
	require.Equal(t, 200, p.Loaded)
	require.Equal(t, []int{1, 201}, rec.seen())
}

func TestLoaderCancelledByContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	loader := preload.NewLoader(preload.Config{
		Name:         "items",
		BatchSize:    10,
		PrimeBatches: 1,
		SuccessDelay: time.Hour,
	}, staticIDs(sequence(100)), func(context.Context, []int) error { return nil }, discardLogger())

	require.NoError(t, loader.Start(ctx))
	cancel()
	loader.Wait()

	p := loader.Progress()
	require.Equal(t, domain.LoadCancelled, p.State)
	require.Less(t, p.Loaded, 100)
}

func TestLoaderIDsFailure(t *testing.T) {
	t.Parallel()

	loader := preload.NewLoader(preload.Config{Name: "items"}, func(context.Context) ([]int, error) {
		return nil, errors.New("no ids")
	}, func(context.Context, []int) error { return nil }, discardLogger())

	require.Error(t, loader.Start(t.Context()))
	require.Equal(t, domain.LoadIdle, loader.Progress().State)
}

func TestLoaderCompletesDuringPriming(t *testing.T) {
	t.Parallel()

	loader := preload.NewLoader(preload.Config{
		Name:         "items",
		BatchSize:    200,
		PrimeBatches: 5,
	}, staticIDs(sequence(450)), func(context.Context, []int) error { return nil }, discardLogger())

	require.NoError(t, loader.Start(t.Context()))

	p := loader.Progress()
	require.Equal(t, domain.LoadComplete, p.State)
	require.Equal(t, 450, p.Loaded)
	require.InDelta(t, 1.0, p.Fraction(), 0.0001)
}
