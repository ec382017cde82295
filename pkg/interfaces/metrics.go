package interfaces

import "time"

// MetricsRecorder receives observations from the renderer, the sitemap
// generator and command handlers. Implementations must be safe for
// concurrent use.
type MetricsRecorder interface {
	IncrementNodeSkipped(kind, subtype, reason string)
	ObserveRenderDuration(nodes int, d time.Duration)
	ObserveSitemapRun(status string, urls int, d time.Duration)
	ObserveCommand(command, status string, d time.Duration)
}
