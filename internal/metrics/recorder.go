// Package metrics provides MetricsRecorder implementations: a no-op default
// and a Prometheus-backed recorder.
package metrics

import (
	"time"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

// Skip reasons reported by the renderer.
const (
	ReasonUnregistered = "unregistered"
	ReasonNoOutput     = "no_output"
	ReasonPanic        = "panic"
)

// Sitemap run statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Noop drops every observation.
type Noop struct{}

var _ interfaces.MetricsRecorder = Noop{}

func (Noop) IncrementNodeSkipped(string, string, string)  {}
func (Noop) ObserveRenderDuration(int, time.Duration)     {}
func (Noop) ObserveSitemapRun(string, int, time.Duration) {}
func (Noop) ObserveCommand(string, string, time.Duration) {}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r interfaces.MetricsRecorder) interfaces.MetricsRecorder {
	if r == nil {
		return Noop{}
	}
	return r
}
