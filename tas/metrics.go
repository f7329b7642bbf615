// SPDX-License-Identifier: MIT

package tas

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/tasreso/reso"
)

// Outcome labels of tasreso_points_total.
const (
	OutcomeOk     = "ok"
	OutcomeFailed = "failed"
)

// ScanMetrics counts resolved points and their latency.
type ScanMetrics struct {
	points  *prometheus.CounterVec
	seconds prometheus.Histogram
}

// NewScanMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered. Registering twice on the same
// registry panics, as promauto does.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	f := promauto.With(reg)
	return &ScanMetrics{
		points: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tasreso_points_total",
			Help: "Number of resolved scattering positions.",
		}, []string{"algo", "outcome"}),
		seconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tasreso_point_seconds",
			Help:    "Time spent resolving one scattering position.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
}

func (m *ScanMetrics) observe(algo reso.Algo, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOk
	if !ok {
		outcome = OutcomeFailed
	}
	m.points.WithLabelValues(algo.String(), outcome).Inc()
	m.seconds.Observe(d.Seconds())
}
