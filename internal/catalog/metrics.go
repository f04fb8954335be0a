package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gw2catalog_cache_lookups_total",
	Help: "Persistent cache lookups by collection and result (hit, miss, stale)",
}, []string{"collection", "result"})
