package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	checkoutAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_checkout_attempts_total",
			Help: "Total number of checkout submissions by outcome.",
		},
		[]string{"result"},
	)
	checkoutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pos_checkout_duration_seconds",
			Help:    "Duration of order submissions in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	catalogRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_catalog_refreshes_total",
			Help: "Total number of product catalog refreshes by outcome.",
		},
		[]string{"result"},
	)

	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_cart_mutations_total",
			Help: "Total number of cart mutations by operation.",
		},
		[]string{"operation"},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func ObserveCheckout(result string, duration time.Duration) {
	checkoutAttemptsTotal.WithLabelValues(result).Inc()
	checkoutDuration.Observe(duration.Seconds())
}

func CatalogRefresh(result string) {
	catalogRefreshesTotal.WithLabelValues(result).Inc()
}

func CartMutation(operation string) {
	cartMutationsTotal.WithLabelValues(operation).Inc()
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
