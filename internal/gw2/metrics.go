package gw2

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gw2catalog_remote_requests_total",
		Help: "Network requests to the game data API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	memoHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gw2catalog_request_memo_hits_total",
		Help: "Requests served from the in-process response memo",
	})

	softenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gw2catalog_softened_failures_total",
		Help: "Recipe and price failures replaced by empty results",
	}, []string{"endpoint"})
)

// endpointLabel collapses numeric path segments: /items/123 -> /items/{id}
func endpointLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

func statusLabel(status int) string {
	if status == http.StatusNotFound {
		return "not_found"
	}
	return "error"
}
