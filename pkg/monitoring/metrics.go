package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "movierec"

// Metrics of the recorders.
// All the methods are safe to call on nil Metrics.
type Metrics struct {
	Active   prometheus.Gauge
	Frames   prometheus.Counter
	Dropped  prometheus.Counter
	Samples  prometheus.Counter
	Errors   prometheus.Counter
	Failures *prometheus.CounterVec
}

// NewMetrics registers the recorder metrics in the registerer,
// prometheus.DefaultRegisterer is used if it's nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_recorders",
			Help:      "The number of recorders running at the same time.",
		}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_written_total",
			Help:      "Video frames appended to encoder sessions.",
		}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_dropped_total",
			Help:      "Captured frames mapped onto an already written slot.",
		}),
		Samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_samples_written_total",
			Help:      "Audio samples appended to encoder sessions.",
		}),
		Errors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Failed frame or sample writes.",
		}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "begin_failures_total",
			Help:      "Recordings that couldn't start.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) SetActive(n int) {
	if m != nil {
		m.Active.Set(float64(n))
	}
}

func (m *Metrics) Frame() {
	if m != nil {
		m.Frames.Inc()
	}
}

func (m *Metrics) Drop() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) Audio(n int) {
	if m != nil {
		m.Samples.Add(float64(n))
	}
}

func (m *Metrics) WriteError() {
	if m != nil {
		m.Errors.Inc()
	}
}

func (m *Metrics) Failure(reason string) {
	if m != nil {
		m.Failures.WithLabelValues(reason).Inc()
	}
}
