package metrics

import (
	"github.com/Alias1177/CrashSignal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes check outcomes as Prometheus metrics.
type Recorder struct {
	checksTotal     *prometheus.CounterVec
	rejectedTotal   *prometheus.CounterVec
	commentaryTotal *prometheus.CounterVec
	checkDuration   *prometheus.HistogramVec
}

// New creates a recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashsignal_checks_total",
				Help: "Total number of evaluated histories by verdict",
			},
			[]string{"source", "verdict"},
		),
		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashsignal_rejected_inputs_total",
				Help: "Total number of submissions rejected before evaluation",
			},
			[]string{"source", "reason"},
		),
		commentaryTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crashsignal_commentary_total",
				Help: "Total number of commentary outcomes by status",
			},
			[]string{"status"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crashsignal_check_duration_seconds",
				Help:    "Duration of a full check including commentary",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
	}
	reg.MustRegister(r.checksTotal, r.rejectedTotal, r.commentaryTotal, r.checkDuration)
	return r
}

// RecordVerdict records one evaluated history.
func (r *Recorder) RecordVerdict(source string, kind models.VerdictKind) {
	r.checksTotal.WithLabelValues(source, string(kind)).Inc()
}

// RecordRejected records a submission rejected at parse time.
func (r *Recorder) RecordRejected(source, reason string) {
	r.rejectedTotal.WithLabelValues(source, reason).Inc()
}

// RecordCommentary records a commentary outcome.
func (r *Recorder) RecordCommentary(status string) {
	r.commentaryTotal.WithLabelValues(status).Inc()
}

// RecordDuration records check latency in seconds.
func (r *Recorder) RecordDuration(source string, seconds float64) {
	r.checkDuration.WithLabelValues(source).Observe(seconds)
}
