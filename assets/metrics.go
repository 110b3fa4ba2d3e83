package assets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts asset requests and loads. The kind label is the matched
// loader extension without its leading dot, e.g. "png" or "atlas.json".
type Metrics struct {
	requests *prometheus.CounterVec
	loads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the asset metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prefab_asset_requests_total",
				Help: "Total number of asset load requests, including repeated paths",
			},
			[]string{"kind"},
		),
		loads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prefab_asset_loads_total",
				Help: "Total number of completed asset loads",
			},
			[]string{"kind", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prefab_asset_load_seconds",
				Help:    "Time spent reading and decoding one asset",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),
	}
}
