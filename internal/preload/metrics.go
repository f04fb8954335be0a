package preload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gw2catalog_preload_batches_total",
		Help: "Preload batches by loader and outcome",
	}, []string{"loader", "outcome"})

	evictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gw2catalog_cache_evictions_total",
		Help: "Records evicted by cache capping",
	}, []string{"collection"})
)
