package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/soygarfield/go-editorial/pkg/interfaces"
)

const namespace = "editorial"

// Prometheus records observations as Prometheus collectors.
type Prometheus struct {
	skipped        *prom.CounterVec
	renderDuration prom.Histogram
	renderNodes    prom.Histogram
	sitemapRuns    *prom.CounterVec
	sitemapURLs    prom.Gauge
	sitemapSeconds prom.Histogram
	commands       *prom.HistogramVec
}

var _ interfaces.MetricsRecorder = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prom.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_nodes_skipped_total",
			Help:      "Document nodes that produced no output",
		}, []string{"kind", "subtype", "reason"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a document",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		renderNodes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_document_nodes",
			Help:      "Top-level nodes per rendered document",
			Buckets:   prom.LinearBuckets(10, 20, 8),
		}),
		sitemapRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sitemap_runs_total",
			Help:      "Sitemap generation runs by final status",
		}, []string{"status"}),
		sitemapURLs: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sitemap_urls",
			Help:      "URL entries in the most recent successful sitemap",
		}),
		sitemapSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sitemap_duration_seconds",
			Help:      "Sitemap generation duration",
			Buckets:   prom.DefBuckets,
		}),
		commands: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command handler executions by command and outcome",
			Buckets:   prom.DefBuckets,
		}, []string{"command", "status"}),
	}

	for _, c := range []prom.Collector{p.skipped, p.renderDuration, p.renderNodes, p.sitemapRuns, p.sitemapURLs, p.sitemapSeconds, p.commands} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) IncrementNodeSkipped(kind, subtype, reason string) {
	p.skipped.WithLabelValues(kind, subtype, reason).Inc()
}

func (p *Prometheus) ObserveRenderDuration(nodes int, d time.Duration) {
	p.renderDuration.Observe(d.Seconds())
	p.renderNodes.Observe(float64(nodes))
}

func (p *Prometheus) ObserveSitemapRun(status string, urls int, d time.Duration) {
	p.sitemapRuns.WithLabelValues(status).Inc()
	p.sitemapSeconds.Observe(d.Seconds())
	if status == StatusSuccess {
		p.sitemapURLs.Set(float64(urls))
	}
}

func (p *Prometheus) ObserveCommand(command, status string, d time.Duration) {
	p.commands.WithLabelValues(command, status).Observe(d.Seconds())
}
