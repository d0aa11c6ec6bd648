package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	subsystem = "delivery"

	etaQuotesTotal = "eta_quotes_total"

	ruleLabel  = "rule"
	cacheLabel = "cache"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var etaQuotesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      etaQuotesTotal,
		Help:      "number of delivery eta quotes served",
	},
	[]string{ruleLabel, cacheLabel},
)

func IncreaseETAQuotesMetric(rule, cache string) {
	etaQuotesTotalMetric.With(prometheus.Labels{
		ruleLabel:  rule,
		cacheLabel: cache,
	}).Inc()
}

func init() {
	prometheus.MustRegister(etaQuotesTotalMetric)
}
