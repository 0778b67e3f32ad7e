package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verybadsoldier/android-health-connect-data-explorer/internal/analytics"
)

type runMetrics struct {
	samples    prometheus.Gauge
	periods    *prometheus.GaugeVec
	latestMean *prometheus.GaugeVec
	lastPeriod *prometheus.GaugeVec
}

func buildRunMetrics() runMetrics {
	return runMetrics{
		samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hrstats_samples",
			Help: "Heart rate samples read in the last run",
		}),
		periods: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrstats_periods",
			Help: "Non-empty periods per granularity",
		}, []string{"granularity"}),
		latestMean: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrstats_latest_mean_bpm",
			Help: "Mean BPM of the most recent period",
		}, []string{"granularity"}),
		lastPeriod: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrstats_latest_period_start_seconds",
			Help: "Unix start time of the most recent period",
		}, []string{"granularity"}),
	}
}

func (m runMetrics) register(reg *prometheus.Registry) {
	reg.MustRegister(
		m.samples,
		m.periods,
		m.latestMean,
		m.lastPeriod,
	)
}

// Registry returns a private registry holding the run's result
func Registry(samples int, s analytics.Summary) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	m := buildRunMetrics()
	m.register(reg)

	m.samples.Set(float64(samples))
	for _, g := range analytics.Granularities {
		points := s.Series(g)
		m.periods.WithLabelValues(string(g)).Set(float64(len(points)))
		if len(points) == 0 {
			continue
		}
		latest := points[len(points)-1]
		m.latestMean.WithLabelValues(string(g)).Set(latest.Mean)
		m.lastPeriod.WithLabelValues(string(g)).Set(float64(latest.Start.Unix()))
	}
	return reg
}

// WriteTextfile writes the run metrics in the text exposition format for a
// node_exporter textfile collector
func WriteTextfile(path string, samples int, s analytics.Summary) error {
	if err := prometheus.WriteToTextfile(path, Registry(samples, s)); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
