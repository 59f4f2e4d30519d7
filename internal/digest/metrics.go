package digest

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/thebtf/threaddigest/internal/digest"

// pipelineMetrics holds the instruments recorded for every run.
type pipelineMetrics struct {
	runs     metric.Int64Counter
	clusters metric.Int64Histogram
	noise    metric.Int64Histogram
	duration metric.Float64Histogram
}

func newPipelineMetrics(meter metric.Meter) (*pipelineMetrics, error) {
	runs, err := meter.Int64Counter("threaddigest.runs",
		metric.WithDescription("Digest runs by outcome"))
	if err != nil {
		return nil, err
	}
	clusters, err := meter.Int64Histogram("threaddigest.clusters",
		metric.WithDescription("Clusters found per run"))
	if err != nil {
		return nil, err
	}
	noise, err := meter.Int64Histogram("threaddigest.noise_points",
		metric.WithDescription("Points labelled noise per run"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("threaddigest.duration",
		metric.WithDescription("Digest run duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &pipelineMetrics{runs: runs, clusters: clusters, noise: noise, duration: duration}, nil
}

func (m *pipelineMetrics) recordClusters(ctx context.Context, clusters, noise int) {
	m.clusters.Record(ctx, int64(clusters))
	m.noise.Record(ctx, int64(noise))
}

func (m *pipelineMetrics) recordRun(ctx context.Context, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.runs.Add(ctx, 1, attrs)
	m.duration.Record(ctx, took.Seconds(), attrs)
}
