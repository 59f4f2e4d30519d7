// Package digest runs the summarization pipeline: cluster the embeddings,
// pick one representative message per cluster, and package the result.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/thebtf/threaddigest/internal/payload"
	"github.com/thebtf/threaddigest/pkg/hdbscan"
	"github.com/thebtf/threaddigest/pkg/models"
	"github.com/thebtf/threaddigest/pkg/similarity"
)

// Options configures a Pipeline.
type Options struct {
	// Cluster holds the HDBSCAN parameters.
	Cluster hdbscan.Config
	// Fallback selects heuristic representatives when no cluster forms.
	Fallback bool
	// Details adds per-cluster selection details to the output.
	Details bool
	// Meter receives pipeline metrics. Nil uses the global meter provider.
	Meter metric.Meter
}

// DefaultOptions returns Options with the default clustering parameters.
func DefaultOptions() Options {
	return Options{Cluster: hdbscan.DefaultConfig()}
}

// Pipeline turns a decoded request into a digest. It keeps no state
// between runs and is safe to reuse.
type Pipeline struct {
	opts    Options
	logger  zerolog.Logger
	metrics *pipelineMetrics
}

// New validates opts and creates a pipeline.
func New(opts Options, logger zerolog.Logger) (*Pipeline, error) {
	if err := opts.Cluster.Validate(); err != nil {
		return nil, err
	}

	meter := opts.Meter
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("create pipeline metrics: %w", err)
	}

	return &Pipeline{
		opts:    opts,
		logger:  logger.With().Str("component", "digest").Logger(),
		metrics: m,
	}, nil
}

// Run clusters in.Embeddings and returns one message per cluster.
//
// The context is checked between stages only; a stage that has started
// runs to completion. Errors are *models.ClusterError or
// *models.SelectionError (or the context error) and no partial output is
// returned with them.
func (p *Pipeline) Run(ctx context.Context, in *payload.Input) (out *payload.Output, err error) {
	start := time.Now()
	defer func() {
		p.metrics.recordRun(ctx, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := p.logger.With().Str("run_id", uuid.New().String()).Logger()
	logger.Debug().
		Int("points", in.Embeddings.Len()).
		Int("dim", in.Embeddings.Dim()).
		Int("min_cluster_size", p.opts.Cluster.MinClusterSize).
		Msg("Clustering embeddings")

	res, err := hdbscan.Cluster(in.Embeddings, p.opts.Cluster)
	if err != nil {
		return nil, fmt.Errorf("cluster embeddings: %w", err)
	}
	p.metrics.recordClusters(ctx, res.NClusters, res.NNoise)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reps, err := similarity.Representatives(in.Embeddings, in.Messages, res.Labels)
	if err != nil {
		return nil, fmt.Errorf("select representatives: %w", err)
	}

	out = &payload.Output{Representatives: make([]models.Message, 0, len(reps))}
	for _, r := range reps {
		out.Representatives = append(out.Representatives, r.Message)
		if p.opts.Details {
			out.Clusters = append(out.Clusters, payload.ClusterDetail{
				Label:    r.Label,
				Index:    r.Index,
				Size:     r.Size,
				Distance: r.Distance,
			})
		}
	}

	if len(out.Representatives) == 0 && p.opts.Fallback {
		indices := FallbackIndices(in.Messages)
		logger.Warn().
			Int("points", res.NPoints).
			Ints("indices", indices).
			Msg("No clusters formed, using fallback representatives")
		for _, idx := range indices {
			out.Representatives = append(out.Representatives, in.Messages[idx])
		}
	}

	logger.Info().
		Int("points", res.NPoints).
		Int("clusters", res.NClusters).
		Int("noise", res.NNoise).
		Int("representatives", len(out.Representatives)).
		Dur("took", time.Since(start)).
		Msg("Digest complete")

	return out, nil
}
