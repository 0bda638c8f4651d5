package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported at /metrics.
var Registry = prometheus.NewRegistry()

var (
	Redemptions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collabuu",
		Name:      "redemptions_total",
		Help:      "Redemption attempts by action and outcome kind.",
	}, []string{"action", "outcome"})

	LedgerEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collabuu",
		Name:      "ledger_entries_total",
		Help:      "Ledger entries appended, by direction.",
	}, []string{"direction"})

	IdentityVerify = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "collabuu",
		Name:      "identity_verify_seconds",
		Help:      "Latency of bearer token verification against the identity provider.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

func init() {
	Registry.MustRegister(
		Redemptions,
		LedgerEntries,
		IdentityVerify,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	return gin.WrapH(h)
}
