package catalog

import (
	"log/slog"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
)

// Staleness decides whether a collection must be refreshed from the remote.
type Staleness struct {
	store  domain.Store
	now    func() time.Time
	logger *slog.Logger
}

func NewStaleness(store domain.Store, now func() time.Time, logger *slog.Logger) *Staleness {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Staleness{store: store, now: now, logger: logger}
}

// IsStale reports whether c was last written more than maxAge ago.
// Missing or unreadable metadata counts as stale. maxAge <= 0 never expires.
func (p *Staleness) IsStale(c domain.Collection, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	last, ok := p.LastUpdated(c)
	if !ok {
		return true
	}
	return p.now().Sub(last) > maxAge
}

// LastUpdated returns the time of the last write into c
func (p *Staleness) LastUpdated(c domain.Collection) (time.Time, bool) {
	meta, ok, err := p.store.Metadata(c)
	if err != nil {
		p.logger.Warn("failed to read cache metadata", "collection", c, "error", err)
		return time.Time{}, false
	}
	if !ok || meta.Value.IsZero() {
		return time.Time{}, false
	}
	return meta.Value, true
}
