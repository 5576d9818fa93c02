// Package metrics records Prometheus metrics for sends.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bchsend"

// Send outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeDryRun   = "dry_run"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder holds the send collectors. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	sends         *prometheus.CounterVec
	fees          prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	lastSend      prometheus.Gauge
}

// NewRecorder creates the collectors. Call Register to expose them.
func NewRecorder(network string) *Recorder {
	labels := prometheus.Labels{"network": network}
	return &Recorder{
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "send",
				Name:        "total",
				Help:        "Total number of sends by outcome",
				ConstLabels: labels,
			},
			[]string{"outcome"},
		),
		fees: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "send",
				Name:        "fee_satoshis",
				Help:        "Fee paid per send in satoshis",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(200, 2, 10),
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "send",
				Name:        "stage_duration_seconds",
				Help:        "Time spent in each send stage",
				ConstLabels: labels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"stage"}, // balance, utxos, build, sign, broadcast
		),
		lastSend: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "send",
				Name:        "last_success_timestamp",
				Help:        "Unix time of the last successful broadcast",
				ConstLabels: labels,
			},
		),
	}
}

// Register adds the collectors to reg. Collectors already registered are
// not an error.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{r.sends, r.fees, r.stageDuration, r.lastSend} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveStage records the duration of one pipeline stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordSend records the outcome of a send and, on success, its fee.
func (r *Recorder) RecordSend(outcome string, fee uint64) {
	if r == nil {
		return
	}
	r.sends.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		r.fees.Observe(float64(fee))
		r.lastSend.Set(float64(time.Now().Unix()))
	}
}

// WriteTextfile writes every metric in g to path in the text exposition
// format, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
