package metrics

import (
	"testing"

	"github.com/Alias1177/CrashSignal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordVerdict("web", models.VerdictSignal)
	r.RecordVerdict("web", models.VerdictSignal)
	r.RecordVerdict("cli", models.VerdictNoSignal)
	r.RecordRejected("api", "parse")
	r.RecordCommentary(models.CommentaryUnavailable)
	r.RecordDuration("web", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.checksTotal.WithLabelValues("web", "signal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.checksTotal.WithLabelValues("cli", "no_signal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejectedTotal.WithLabelValues("api", "parse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commentaryTotal.WithLabelValues("unavailable")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.checkDuration))
}
