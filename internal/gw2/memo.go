package gw2

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMemoSize = 2048
	DefaultMemoTTL  = 5 * time.Minute
)

// RequestCache memoizes successful response bodies by canonical request URL.
// Identical requests in flight at the same time share one network call.
// Failures are never stored.
type RequestCache struct {
	entries *expirable.LRU[string, []byte]
	group   singleflight.Group
}

// NewRequestCache creates a memo holding at most size bodies for ttl each.
func NewRequestCache(size int, ttl time.Duration) *RequestCache {
	if size <= 0 {
		size = DefaultMemoSize
	}
	if ttl <= 0 {
		ttl = DefaultMemoTTL
	}
	return &RequestCache{entries: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Do returns the memoized body for key or runs fetch once for all concurrent
// callers. cached is true when no network call was made by this caller.
// The shared fetch outlives any single caller: each caller stops waiting
// when its own ctx is done, without failing the others.
func (m *RequestCache) Do(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) (body []byte, cached bool, err error) {
	if body, ok := m.entries.Get(key); ok {
		memoHitsTotal.Inc()
		return body, true, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		if body, ok := m.entries.Get(key); ok {
			return body, nil
		}
		body, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		m.entries.Add(key, body)
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), res.Shared, nil
	}
}

// Len returns the number of memoized responses
func (m *RequestCache) Len() int {
	return m.entries.Len()
}

// Reset drops every memoized response.
func (m *RequestCache) Reset() {
	m.entries.Purge()
}
