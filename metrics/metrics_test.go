package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("load", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeFailed)
	pr.SetPages("en", "post", 12)
	pr.SetRenderCache(10, 7)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.buildOutcome.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 12.0, testutil.ToFloat64(pr.pages.WithLabelValues("en", "post")))
	assert.Equal(t, 7.0, testutil.ToFloat64(pr.cacheHits))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.stageDuration))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilRecorder(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("load", time.Second)
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(OutcomeFailed)
		pr.SetPages("en", "post", 1)
		pr.SetRenderCache(1, 1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(OutcomeSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `chronicle_build_outcomes_total{outcome="success"} 1`)
}
