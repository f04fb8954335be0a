package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gw2catalog/internal/domain"
	"github.com/mmcdole/gw2catalog/internal/store"
)

// entityCache is the read-through cache for one collection: the store
// answers first, the remote fills misses and stale entries, and fetched
// records are written back.
type entityCache[T domain.Keyed] struct {
	collection domain.Collection
	store      domain.Store
	staleness  *Staleness
	maxAge     time.Duration // 0 = never stale
	logger     *slog.Logger

	// fetchOne reports ok=false for a remote "no such record"
	fetchOne  func(ctx context.Context, id int) (T, bool, error)
	fetchMany func(ctx context.Context, ids []int) ([]T, error)
}

// get returns one record. A failed refresh falls back to the stale cached value.
func (e *entityCache[T]) get(ctx context.Context, id int) (T, error) {
	cached, found, err := store.GetRecord[T](e.store, e.collection, id)
	if err != nil {
		e.logger.Warn("failed to read cache", "collection", e.collection, "id", id, "error", err)
		found = false
	}

	if found && !e.staleness.IsStale(e.collection, e.maxAge) {
		cacheLookupsTotal.WithLabelValues(string(e.collection), "hit").Inc()
		return cached, nil
	}
	if found {
		cacheLookupsTotal.WithLabelValues(string(e.collection), "stale").Inc()
	} else {
		cacheLookupsTotal.WithLabelValues(string(e.collection), "miss").Inc()
	}

	fetched, ok, err := e.fetchOne(ctx, id)
	if err == nil && ok {
		e.save(ctx, []T{fetched})
		return fetched, nil
	}
	if found {
		e.logger.Debug("serving stale record", "collection", e.collection, "id", id, "error", err)
		return cached, nil
	}

	var zero T
	if err != nil {
		return zero, err
	}
	return zero, fmt.Errorf("%s %d: %w", e.collection, id, domain.ErrNotFound)
}

// getMany resolves ids in input order, duplicates included, dropping ids
// that resolve nowhere. The returned error joins remote failures; the
// records are usable regardless.
func (e *entityCache[T]) getMany(ctx context.Context, ids []int) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	unique := uniqueIDs(ids)

	cached := make(map[int]T, len(unique))
	recs, err := store.GetRecords[T](e.store, e.collection, unique)
	if err != nil {
		e.logger.Warn("failed to read cache", "collection", e.collection, "count", len(unique), "error", err)
	}
	for _, rec := range recs {
		cached[rec.Key()] = rec
	}

	stale := len(cached) > 0 && e.staleness.IsStale(e.collection, e.maxAge)
	var misses []int
	for _, id := range unique {
		if _, ok := cached[id]; !ok || stale {
			misses = append(misses, id)
		}
	}
	e.countLookups(len(unique), len(misses), len(cached), stale)

	fetched := make(map[int]T, len(misses))
	var fetchErr error
	if len(misses) > 0 {
		recs, err := e.fetchMany(ctx, misses)
		if err != nil {
			fetchErr = err
			e.logger.Warn("failed to fetch records", "collection", e.collection,
				"requested", len(misses), "fetched", len(recs), "error", err)
		}
		e.save(ctx, recs)
		for _, rec := range recs {
			fetched[rec.Key()] = rec
		}
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if rec, ok := fetched[id]; ok {
			out = append(out, rec)
		} else if rec, ok := cached[id]; ok {
			out = append(out, rec)
		}
	}
	return out, fetchErr
}

// save writes records through. Nothing is written once ctx is done.
func (e *entityCache[T]) save(ctx context.Context, recs []T) {
	if len(recs) == 0 || ctx.Err() != nil {
		return
	}
	if err := store.PutRecords(e.store, e.collection, recs); err != nil {
		e.logger.Warn("failed to write cache", "collection", e.collection, "count", len(recs), "error", err)
	}
}

func (e *entityCache[T]) countLookups(requested, misses, cached int, stale bool) {
	label := string(e.collection)
	if stale {
		cacheLookupsTotal.WithLabelValues(label, "stale").Add(float64(cached))
		cacheLookupsTotal.WithLabelValues(label, "miss").Add(float64(misses - cached))
		return
	}
	cacheLookupsTotal.WithLabelValues(label, "hit").Add(float64(requested - misses))
	cacheLookupsTotal.WithLabelValues(label, "miss").Add(float64(misses))
}

// uniqueIDs drops repeated ids, keeping first occurrences in order
func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
