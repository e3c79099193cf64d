// Package metrics provides the centralized Prometheus registry reference for
// the item feed client. Metrics are defined in their owning packages (client,
// cache, pipeline) to maintain modularity and avoid circular dependencies.
//
// This package documents the available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - itemfeed_requests_total{status} (Counter): Feed requests by HTTP status
//   - itemfeed_request_duration_seconds (Histogram): Feed request duration
//   - itemfeed_errors_total{class} (Counter): Fetch errors by class
//     (network, client, server, unexpected)
//
// Cache Metrics (pkg/cache):
//   - itemfeed_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - itemfeed_cache_misses_total (Counter): Cache misses
//   - itemfeed_cache_size_bytes{layer="redis"} (Gauge): Cached entry size
//   - itemfeed_304_responses_total (Counter): 304 Not Modified responses
//   - itemfeed_conditional_requests_total (Counter): Conditional requests sent
//   - itemfeed_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pipeline Metrics (pkg/pipeline):
//   - itemfeed_pipeline_runs_total{outcome} (Counter): Pipeline runs by
//     outcome (success, fetch_error, parse_error)
//   - itemfeed_pipeline_stage_duration_seconds{stage} (Histogram): Stage
//     duration (fetch, parse, group)
//   - itemfeed_pipeline_records (Histogram): Records surviving the filter
//
// Example Prometheus Queries:
//
//   # Fetch error rate
//   rate(itemfeed_errors_total[5m])
//
//   # 304 response rate
//   rate(itemfeed_304_responses_total[5m]) / rate(itemfeed_requests_total[5m])
//
//   # P95 pipeline fetch latency
//   histogram_quantile(0.95,
//     rate(itemfeed_pipeline_stage_duration_seconds_bucket{stage="fetch"}[5m]))
