// Package metrics exposes Prometheus counters for the upload workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fastchannel"

type Workflow struct {
	gatherer prometheus.Gatherer

	uploadsStarted   prometheus.Counter
	progressTicks    prometheus.Counter
	uploadsCompleted prometheus.Counter
	uploadsPromoted  prometheus.Counter
	uploadsCancelled prometheus.Counter
	uploadsInFlight  prometheus.Gauge
	rejections       *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New registers the workflow metrics on a fresh registry.
func New() *Workflow {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Workflow {
	f := promauto.With(reg)
	return &Workflow{
		gatherer: gatherer,
		uploadsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_started_total",
			Help:      "Upload simulations started",
		}),
		progressTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_progress_ticks_total",
			Help:      "Progress increments applied",
		}),
		uploadsCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_completed_total",
			Help:      "Uploads that reached completed",
		}),
		uploadsPromoted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_promoted_total",
			Help:      "Library entries created from completed uploads",
		}),
		uploadsCancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_cancelled_total",
			Help:      "Uploads removed by the user",
		}),
		uploadsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_in_flight",
			Help:      "Uploads currently being simulated",
		}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected selections, trims and confirmations by reason",
		}, []string{"reason"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

func (w *Workflow) UploadStarted() { w.uploadsStarted.Inc() }
func (w *Workflow) ProgressTick() { w.progressTicks.Inc() }
func (w *Workflow) UploadCompleted() { w.uploadsCompleted.Inc() }
func (w *Workflow) UploadPromoted() { w.uploadsPromoted.Inc() }
func (w *Workflow) UploadCancelled() { w.uploadsCancelled.Inc() }
func (w *Workflow) SetInFlight(n int) { w.uploadsInFlight.Set(float64(n)) }

// Rejected counts a rejection by reason code. Empty reasons are counted as
// "other".
func (w *Workflow) Rejected(reason string) {
	if reason == "" {
		reason = "other"
	}
	w.rejections.WithLabelValues(reason).Inc()
}

func (w *Workflow) ObserveRequest(method string, status int, elapsed time.Duration) {
	w.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (w *Workflow) Handler() http.Handler {
	return promhttp.HandlerFor(w.gatherer, promhttp.HandlerOpts{})
}
