package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"screen2html/internal/pipeline"
)

func TestObserverCounts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.StageStarted(pipeline.StageDescribe)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageCallsInFlight))
	m.StageFinished(pipeline.StageDescribe, "D", nil, time.Second)

	m.StageStarted(pipeline.StageGenerateHTML)
	m.StageFinished(pipeline.StageGenerateHTML, "", errors.New("boom"), time.Second)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.StageCallsInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageCallsTotal.WithLabelValues("describe", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageCallsTotal.WithLabelValues("generate_html", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageOutputChars))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
