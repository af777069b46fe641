package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	votesTotal        prometheus.Counter
	wsConnections     prometheus.Gauge
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollit",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "path", "status"})

		votesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pollit",
			Name:      "votes_total",
			Help:      "Total accepted vote rows.",
		})

		wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pollit",
			Name:      "ws_connections",
			Help:      "Currently open websocket connections.",
		})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// AddVotes records n accepted vote rows.
func AddVotes(n int) {
	if votesTotal == nil {
		return
	}
	votesTotal.Add(float64(n))
}

func WSConnected() {
	if wsConnections != nil {
		wsConnections.Inc()
	}
}

func WSDisconnected() {
	if wsConnections != nil {
		wsConnections.Dec()
	}
}
