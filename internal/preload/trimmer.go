package preload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// TrimConfig bounds the persistent cache.
type TrimConfig struct {
	MaxEntries int           // per collection after a trim
	Ceiling    int           // combined size that triggers a trim
	Interval   time.Duration // periodic check; 0 disables the ticker
}

func (c TrimConfig) withDefaults() TrimConfig {
	if c.MaxEntries <= 0 {
		c.MaxEntries = 500
	}
	if c.Ceiling <= 0 {
		c.Ceiling = 2 * c.MaxEntries
	}
	return c
}

// Trimmer caps the record collections. Once the combined size passes the
// ceiling every collection above MaxEntries is cut back, oldest writes
// first. Failures are logged and never returned.
type Trimmer struct {
	store  domain.Store
	cfg    TrimConfig
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewTrimmer(store domain.Store, cfg TrimConfig, logger *slog.Logger) *Trimmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trimmer{store: store, cfg: cfg.withDefaults(), logger: logger}
}

// TrimNow runs one pass and returns the number of evicted records.
func (t *Trimmer) TrimNow() int {
	counts := make(map[domain.Collection]int, len(domain.Collections))
	total := 0
	for _, c := range domain.Collections {
		n, err := t.store.Count(c)
		if err != nil {
			t.logger.Warn("failed to count collection", "error", err, "collection", c)
			continue
		}
		counts[c] = n
		total += n
	}
	if total <= t.cfg.Ceiling {
		return 0
	}

	removed := 0
	for _, c := range domain.Collections {
		if counts[c] <= t.cfg.MaxEntries {
			continue
		}
		n, err := t.store.Trim(c, t.cfg.MaxEntries)
		if err != nil {
			t.logger.Warn("failed to trim collection", "error", err, "collection", c)
			continue
		}
		evictionsTotal.WithLabelValues(string(c)).Add(float64(n))
		removed += n
	}
	t.logger.Info("trimmed cache", "removed", removed, "total_before", total)
	return removed
}

// Start runs TrimNow every Interval until ctx ends or Stop is called.
func (t *Trimmer) Start(ctx context.Context) {
	if t.cfg.Interval <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(t.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.TrimNow()
			}
		}
	}(t.done)
}

// Stop ends the periodic pass and runs a final one.
func (t *Trimmer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	t.TrimNow()
}
