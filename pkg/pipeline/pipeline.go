// Package pipeline composes the feed client and the items package into the
// fetch → parse/filter → sort/group flow.
//
// The three stages run strictly sequentially, each consuming only the
// previous stage's output. Any fetch or parse error aborts the run with no
// partial result. The whole run is a pure function of the feed document, so
// two runs over identical input produce identical results.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/nharden/itemfeed-client/pkg/client"
	"github.com/nharden/itemfeed-client/pkg/items"
	"github.com/nharden/itemfeed-client/pkg/logging"
)

// Prometheus metrics for pipeline runs.
var (
	pipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itemfeed_pipeline_runs_total",
		Help: "Total pipeline runs by outcome",
	}, []string{"outcome"})

	pipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "itemfeed_pipeline_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
	}, []string{"stage"})

	pipelineRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "itemfeed_pipeline_records",
		Help:    "Records surviving the name filter per run",
		Buckets: []float64{0, 10, 100, 1000, 10000},
	})
)

// Fetcher is the part of the feed client the pipeline needs.
type Fetcher interface {
	FetchFeed(ctx context.Context) ([]byte, error)
}

// Pipeline runs the fetch → parse/filter → sort/group flow.
type Pipeline struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// Result is the single completion value of an asynchronous run. Exactly one
// of Groups/Err is set.
type Result struct {
	Groups items.Grouped
	Err    error
}

// New creates a pipeline over the given fetcher.
func New(fetcher Fetcher) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		logger:  logging.NewLogger("pipeline"),
	}
}

// FetchGroupedItems runs the pipeline once: fetch the feed, decode and
// filter it, sort, and group. On any error the returned Grouped is nil; a
// successfully processed empty feed yields an empty non-nil Grouped.
func (p *Pipeline) FetchGroupedItems(ctx context.Context) (items.Grouped, error) {
	fetchStart := time.Now()
	data, err := p.fetcher.FetchFeed(ctx)
	pipelineStageDuration.WithLabelValues("fetch").Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		p.logger.Error().Err(err).Msg("Feed fetch failed")
		pipelineRunsTotal.WithLabelValues("fetch_error").Inc()
		return nil, err
	}

	parseStart := time.Now()
	records, err := items.ParseRecords(data)
	pipelineStageDuration.WithLabelValues("parse").Observe(time.Since(parseStart).Seconds())
	if err != nil {
		p.logger.Error().Err(err).Msg("Feed parse failed")
		pipelineRunsTotal.WithLabelValues("parse_error").Inc()
		return nil, err
	}
	pipelineRecords.Observe(float64(len(records)))

	groupStart := time.Now()
	groups := items.GroupRecords(items.SortRecords(records))
	pipelineStageDuration.WithLabelValues("group").Observe(time.Since(groupStart).Seconds())

	pipelineRunsTotal.WithLabelValues("success").Inc()
	p.logger.Info().
		Int("records", len(records)).
		Int("groups", len(groups)).
		Msg("Pipeline run complete")

	return groups, nil
}

// Go launches one asynchronous run and returns a channel that delivers
// exactly one Result. The channel is buffered, so a caller torn down before
// completion leaks nothing: the goroutine sends its result and exits.
func (p *Pipeline) Go(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		groups, err := p.FetchGroupedItems(ctx)
		out <- Result{Groups: groups, Err: err}
		close(out)
	}()
	return out
}

// IsFeedError reports whether err is a fetch failure (as opposed to a parse
// or record failure).
func IsFeedError(err error) bool {
	var feedErr *client.FeedError
	return errors.As(err, &feedErr)
}
