package suggestions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	suggestionsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_served_total",
			Help: "Total number of suggestion queries served",
		},
		[]string{"kind"},
	)

	tierPlacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_tier_placements_total",
			Help: "Candidates placed per tier",
		},
		[]string{"kind", "reason"},
	)

	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_cache_hits_total",
			Help: "Suggestion queries answered from cache",
		},
		[]string{"kind"},
	)
)
