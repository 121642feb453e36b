// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "subtitle_generator"

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Session metrics
	SessionsTotal   prometheus.Counter
	SessionsActive  prometheus.Gauge
	SessionOutcomes *prometheus.CounterVec
	SessionDuration prometheus.Histogram

	// Segment metrics
	SegmentsCollected prometheus.Counter

	// Capture metrics
	ChunksAdmitted    prometheus.Counter
	ChunksDropped     *prometheus.CounterVec
	WindowSubmissions prometheus.Counter
	WindowDepth       prometheus.Gauge

	// Engine metrics
	EngineLatency *prometheus.HistogramVec
	EngineErrors  *prometheus.CounterVec

	// Media metrics
	TranscodeDuration     prometheus.Histogram
	ModelDownloadDuration prometheus.Histogram

	// Output metrics
	SubtitlesWritten *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// Session metrics
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of transcription sessions started",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently active sessions",
		}),
		SessionOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_outcomes_total",
			Help:      "Total sessions by terminal state",
		}, []string{"outcome"}),
		SessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Duration of transcription sessions in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		}),

		// Segment metrics
		SegmentsCollected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_collected_total",
			Help:      "Total number of segments accepted by collectors",
		}),

		// Capture metrics
		ChunksAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_admitted_total",
			Help:      "Total number of capture chunks admitted to the window",
		}),
		ChunksDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_dropped_total",
			Help:      "Total number of capture chunks dropped",
		}, []string{"reason"}),
		WindowSubmissions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_submissions_total",
			Help:      "Total number of window re-inference submissions",
		}),
		WindowDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_depth_chunks",
			Help:      "Current number of chunks held by the sliding window",
		}),

		// Engine metrics
		EngineLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_latency_seconds",
			Help:      "Engine submission latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60, 300},
		}, []string{"provider"}),
		EngineErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total number of engine errors",
		}, []string{"provider"}),

		// Media metrics
		TranscodeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcode_duration_seconds",
			Help:      "Input transcode duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 15, 30, 60, 300},
		}),
		ModelDownloadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_download_duration_seconds",
			Help:      "Model artifact download duration in seconds",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}),

		// Output metrics
		SubtitlesWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subtitles_written_total",
			Help:      "Total number of subtitle documents written",
		}, []string{"format"}),

		// Kafka publish metrics
		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session reaching a terminal state.
func (m *Metrics) RecordSessionEnd(outcome string, durationSeconds float64) {
	m.SessionsActive.Dec()
	m.SessionDuration.Observe(durationSeconds)
	m.SessionOutcomes.WithLabelValues(outcome).Inc()
}

// RecordSegmentCollected records a segment accepted by a collector.
func (m *Metrics) RecordSegmentCollected() {
	m.SegmentsCollected.Inc()
}

// RecordChunkAdmitted records a capture chunk entering the window.
func (m *Metrics) RecordChunkAdmitted(depth int) {
	m.ChunksAdmitted.Inc()
	m.WindowDepth.Set(float64(depth))
}

// RecordChunkDropped records a capture chunk rejected by the silence gate.
func (m *Metrics) RecordChunkDropped(reason string) {
	m.ChunksDropped.WithLabelValues(reason).Inc()
}

// RecordWindowSubmission records a whole-window re-inference submission.
func (m *Metrics) RecordWindowSubmission() {
	m.WindowSubmissions.Inc()
}

// RecordEngineSubmission records an engine round trip.
func (m *Metrics) RecordEngineSubmission(provider string, err error, latencySeconds float64) {
	m.EngineLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.EngineErrors.WithLabelValues(provider).Inc()
	}
}

// RecordTranscode records an input transcode.
func (m *Metrics) RecordTranscode(durationSeconds float64) {
	m.TranscodeDuration.Observe(durationSeconds)
}

// RecordModelDownload records a model artifact download.
func (m *Metrics) RecordModelDownload(durationSeconds float64) {
	m.ModelDownloadDuration.Observe(durationSeconds)
}

// RecordSubtitleWritten records a subtitle document written to disk.
func (m *Metrics) RecordSubtitleWritten(format string) {
	m.SubtitlesWritten.WithLabelValues(format).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
