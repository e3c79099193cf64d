// Package client provides the HTTP fetcher for the item feed, with error
// classification, optional Redis-backed response caching, and metrics.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/nharden/itemfeed-client/pkg/cache"
	"github.com/nharden/itemfeed-client/pkg/logging"
)

// DefaultFeedURL is the fixed location of the item feed.
const DefaultFeedURL = "https://fetch-hiring.s3.amazonaws.com/hiring.json"

// Prometheus metrics for feed fetch operations.
var (
	feedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itemfeed_requests_total",
		Help: "Total feed requests by status",
	}, []string{"status"})

	feedRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "itemfeed_request_duration_seconds",
		Help:    "Feed request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	feedErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itemfeed_errors_total",
		Help: "Total feed fetch errors by class",
	}, []string{"class"})
)

// Client fetches the item feed. One outbound GET per FetchFeed call; a
// single failure is reported, never retried.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// FeedURL is the feed location. Defaults to DefaultFeedURL.
	FeedURL string

	// UserAgent sent with every request.
	UserAgent string

	// Timeout bounds the whole request including body read.
	Timeout time.Duration

	// Cache is an optional response cache. With a cache configured the
	// client still revalidates on every call, but a 304 Not Modified is
	// answered from the cached bytes.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration without a cache.
func DefaultConfig() Config {
	return Config{
		FeedURL:   DefaultFeedURL,
		UserAgent: "itemfeed-client/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new feed client.
func New(cfg Config) (*Client, error) {
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	u, err := url.Parse(cfg.FeedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid feed URL %q", cfg.FeedURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logging.NewLogger("feed-client"),
	}, nil
}

// FeedURL returns the configured feed location.
func (c *Client) FeedURL() string {
	return c.config.FeedURL
}

// FetchFeed retrieves the full feed document as raw bytes. It performs
// exactly one GET; transport failures and non-2xx statuses come back as a
// *FeedError, with no retry.
func (c *Client) FetchFeed(ctx context.Context) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		feedRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Cached validators turn this into a conditional request. The network
	// round trip still happens on every call.
	cacheKey := cache.KeyForURL(c.config.FeedURL)
	var cachedEntry *cache.Entry
	if c.cache != nil {
		cachedEntry, err = c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Msg("Cache get error")
			cachedEntry = nil
		}

		if cache.ShouldMakeConditionalRequest(cachedEntry) {
			cache.AddConditionalHeaders(req, cachedEntry)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("etag", cachedEntry.ETag).
				Msg("Making conditional request")
		}
	}

	c.logger.Debug().Str("url", c.config.FeedURL).Msg("Fetching feed")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", c.config.FeedURL).Msg("Feed request failed")
		feedErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		feedRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &FeedError{
			Class:   ErrorClassNetwork,
			Message: "fetch feed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	feedRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	// 304 Not Modified: answer from the cached bytes.
	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()

		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}

		return cachedEntry.Data, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := classifyStatus(resp.StatusCode)
		feedErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Feed request error")

		return nil, &FeedError{
			StatusCode: resp.StatusCode,
			Class:      errClass,
			Message:    resp.Status,
		}
	}

	if c.cache != nil {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Dur("ttl", entry.TTL()).
					Msg("Cached feed response")
			}
			return entry.Data, nil
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		feedErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &FeedError{
			Class:   ErrorClassNetwork,
			Message: "read feed body",
			Err:     err,
		}
	}

	return body, nil
}

// InvalidateCache drops the cached feed entry, if any.
func (c *Client) InvalidateCache(ctx context.Context) error {
	if c.cache == nil {
		return ErrNoCache
	}
	return c.cache.Delete(ctx, cache.KeyForURL(c.config.FeedURL))
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
