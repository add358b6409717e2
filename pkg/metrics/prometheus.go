package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	tickDuration   prometheus.Histogram
	fusionScore    prometheus.Gauge
	fusionConf     prometheus.Gauge
	truthGap       prometheus.Gauge
	decisionsTotal *prometheus.CounterVec
	triggersTotal  *prometheus.CounterVec
	feedEvents     *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		tickDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fusiongate_tick_duration_seconds",
				Help:    "Duration of one evaluation tick in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		fusionScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fusiongate_fusion_score",
				Help: "Last stabilized fusion score",
			},
		),
		fusionConf: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fusiongate_fusion_confidence",
				Help: "Last derived fusion confidence",
			},
		),
		truthGap: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fusiongate_truth_gap",
				Help: "Last live-vs-model truth gap",
			},
		),
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusiongate_decisions_total",
				Help: "Total trade decisions by action",
			},
			[]string{"action"},
		),
		triggersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusiongate_triggers_total",
				Help: "Total trigger outcomes by result",
			},
			[]string{"result"},
		),
		feedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusiongate_feed_events_total",
				Help: "Total feed events accepted by kind",
			},
			[]string{"kind"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fusiongate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fusiongate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordTickDuration records one evaluation tick duration in seconds.
func (r *Recorder) RecordTickDuration(seconds float64) {
	r.tickDuration.Observe(seconds)
}

// RecordFusionScore records the last stabilized score and confidence.
func (r *Recorder) RecordFusionScore(score, confidence float64) {
	r.fusionScore.Set(score)
	r.fusionConf.Set(confidence)
}

// RecordTruthGap records the last reality scan truth gap.
func (r *Recorder) RecordTruthGap(gap float64) {
	r.truthGap.Set(gap)
}

// RecordDecision records one decision by action.
func (r *Recorder) RecordDecision(action string) {
	r.decisionsTotal.WithLabelValues(action).Inc()
}

// RecordTrigger records one trigger outcome.
func (r *Recorder) RecordTrigger(approved bool) {
	result := "rejected"
	if approved {
		result = "approved"
	}
	r.triggersTotal.WithLabelValues(result).Inc()
}

// RecordFeedEvent records one accepted feed event by kind.
func (r *Recorder) RecordFeedEvent(kind string) {
	r.feedEvents.WithLabelValues(kind).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
