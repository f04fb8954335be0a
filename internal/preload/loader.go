package preload

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// ErrAlreadyRunning is returned by Start while a run is in progress.
var ErrAlreadyRunning = errors.New("loader already running")

// IDsFunc resolves the ordered id list a run walks through
type IDsFunc func(ctx context.Context) ([]int, error)

// BatchFunc loads one batch. It must not write anything once ctx is done.
type BatchFunc func(ctx context.Context, batch []int) error

// Config tunes a Loader.
type Config struct {
	Name         string
	BatchSize    int
	PrimeBatches int           // batches processed before Start returns
	PrimeDelay   time.Duration // pause between priming batches
	SuccessDelay time.Duration // pause after a successful background batch
	FailureDelay time.Duration // first pause after a failed batch; grows while failures repeat
	MaxDelay     time.Duration // cap for the failure pause
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 200
	}
	if c.PrimeBatches < 0 {
		c.PrimeBatches = 0
	}
	if c.FailureDelay <= c.SuccessDelay {
		c.FailureDelay = 2*c.SuccessDelay + 100*time.Millisecond
	}
	if c.MaxDelay < c.FailureDelay {
		c.MaxDelay = 10 * c.FailureDelay
	}
	return c
}

// Loader walks an id list in fixed-size batches: the first PrimeBatches run
// inside Start, the rest in a background goroutine with a pause between
// batches. Failed batches are logged and skipped.
type Loader struct {
	cfg        Config
	ids        IDsFunc
	batch      BatchFunc
	logger     *slog.Logger
	onProgress domain.ProgressFunc

	mu       sync.Mutex
	progress domain.LoadProgress
	cancel   context.CancelFunc
	done     chan struct{}
	backoff  *backoff.ExponentialBackOff
}

// NewLoader creates an idle loader.
func NewLoader(cfg Config, ids IDsFunc, batch BatchFunc, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.FailureDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.Reset()

	return &Loader{
		cfg:      cfg,
		ids:      ids,
		batch:    batch,
		logger:   logger.With("loader", cfg.Name),
		backoff:  b,
		progress: domain.LoadProgress{Name: cfg.Name, State: domain.LoadIdle},
	}
}

// OnProgress registers a callback invoked after every batch.
func (l *Loader) OnProgress(fn domain.ProgressFunc) {
	l.mu.Lock()
	l.onProgress = fn
	l.mu.Unlock()
}

// Progress returns a snapshot of the current run
func (l *Loader) Progress() domain.LoadProgress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.progress
}

// Start resolves the id list, runs the priming batches and hands the rest to
// a background goroutine. Cancelling ctx or calling Stop ends the run.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.progress.State.Running() {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.progress = domain.LoadProgress{Name: l.cfg.Name, State: domain.LoadPriming}
	l.backoff.Reset()
	l.mu.Unlock()

	ids, err := l.ids(ctx)
	if err != nil {
		l.finish(domain.LoadIdle)
		cancel()
		l.logger.Error("failed to resolve ids", "error", err)
		return err
	}

	batches := slices.Collect(slices.Chunk(ids, l.cfg.BatchSize))
	l.mu.Lock()
	l.progress.Total = len(ids)
	l.mu.Unlock()
	l.logger.Info("starting load", "ids", len(ids), "batches", len(batches))

	prime := min(l.cfg.PrimeBatches, len(batches))
	for i := 0; i < prime; i++ {
		ok := l.runBatch(ctx, batches[i])
		if ctx.Err() != nil {
			l.finish(domain.LoadCancelled)
			return ctx.Err()
		}
		if i < len(batches)-1 && !l.pause(ctx, ok, l.cfg.PrimeDelay) {
			l.finish(domain.LoadCancelled)
			return ctx.Err()
		}
	}

	if prime == len(batches) {
		l.finish(domain.LoadComplete)
		cancel()
		return nil
	}

	l.setState(domain.LoadBackground)
	go l.background(ctx, cancel, batches[prime:])
	return nil
}

func (l *Loader) background(ctx context.Context, cancel context.CancelFunc, batches [][]int) {
	defer cancel()

	for i, batch := range batches {
		ok := l.runBatch(ctx, batch)
		if ctx.Err() != nil {
			l.finish(domain.LoadCancelled)
			return
		}
		if i < len(batches)-1 && !l.pause(ctx, ok, l.cfg.SuccessDelay) {
			l.finish(domain.LoadCancelled)
			return
		}
	}

	p := l.Progress()
	l.logger.Info("load complete", "loaded", p.Loaded, "failed_batches", p.Failed)
	l.finish(domain.LoadComplete)
}

// runBatch loads one batch and advances the counters. It reports whether
// the batch succeeded; nothing is recorded once ctx is done.
func (l *Loader) runBatch(ctx context.Context, batch []int) bool {
	if ctx.Err() != nil {
		return false
	}

	err := l.batch(ctx, batch)
	if ctx.Err() != nil {
		return false
	}

	l.mu.Lock()
	l.progress.Loaded += len(batch)
	if err != nil {
		l.progress.Failed++
	}
	p := l.progress
	fn := l.onProgress
	l.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
		l.logger.Error("failed to load batch", "error", err, "first_id", batch[0], "size", len(batch))
	}
	batchesTotal.WithLabelValues(l.cfg.Name, outcome).Inc()

	if fn != nil {
		fn(p.Loaded, p.Total)
	}
	return err == nil
}

// pause waits before the next batch: delay after a success, an exponentially
// growing pause after consecutive failures. Returns false if ctx ended.
func (l *Loader) pause(ctx context.Context, ok bool, delay time.Duration) bool {
	if ok {
		l.mu.Lock()
		l.backoff.Reset()
		l.mu.Unlock()
	} else {
		l.mu.Lock()
		delay = l.backoff.NextBackOff()
		l.mu.Unlock()
	}
	if delay <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (l *Loader) setState(s domain.LoadState) {
	l.mu.Lock()
	l.progress.State = s
	l.mu.Unlock()
}

func (l *Loader) finish(s domain.LoadState) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.progress.State = s
	if l.done != nil {
		close(l.done)
		l.done = nil
	}
}

// Stop cancels the run and waits for the background goroutine to exit.
func (l *Loader) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.Wait()
}

// Wait blocks until the current run has finished
func (l *Loader) Wait() {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done != nil {
		<-done
	}
}
