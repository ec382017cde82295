package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecordsObservations(t *testing.T) {
	reg := prom.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.IncrementNodeSkipped("customType", "mystery", ReasonUnregistered)
	p.IncrementNodeSkipped("customType", "mystery", ReasonUnregistered)
	p.ObserveSitemapRun(StatusSuccess, 42, time.Second)
	p.ObserveSitemapRun(StatusFailed, 0, time.Millisecond)
	p.ObserveRenderDuration(12, time.Millisecond)
	p.ObserveCommand("editorial.sitemap.generate", "success", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.skipped.WithLabelValues("customType", "mystery", ReasonUnregistered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.sitemapRuns.WithLabelValues(StatusFailed)))
	assert.Equal(t, 42.0, testutil.ToFloat64(p.sitemapURLs), "failed runs must not reset the URL gauge")
	assert.Equal(t, 1, testutil.CollectAndCount(p.commands))
}

func TestNewPrometheusRejectsDuplicateRegistration(t *testing.T) {
	reg := prom.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)
	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil))
}
