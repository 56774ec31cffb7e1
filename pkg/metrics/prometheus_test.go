package metrics

import (
	"testing"

	"FinAssist/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.Metrics = (*Recorder)(nil)

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordAnswer("fallback", "timeout")
	r.RecordAnswer("fallback", "timeout")
	r.RecordAnswer("generated", "generated")
	r.RecordResolution("alias")
	r.RecordNewsSearch(true)
	r.RecordNewsSearch(false)
	r.RecordNewsSearch(false)
	r.RecordError("news_search")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.answers.WithLabelValues("fallback", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.answers.WithLabelValues("generated", "generated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("alias")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.newsSearches.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("news_search")))
}

func TestRecorder_Latency(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordLatency("answer", 0.2)
	r.RecordLatency("answer", 0.4)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "finassist_operation_duration_seconds" {
			continue
		}
		found = true
		require.Len(t, mf.GetMetric(), 1)
		assert.Equal(t, uint64(2), mf.GetMetric()[0].GetHistogram().GetSampleCount())
	}
	assert.True(t, found)
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
