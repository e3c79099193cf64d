// Package cache provides a Redis-backed cache for raw item feed responses.
//
// Only upstream bytes are cached, never parsed records or grouped results:
// the pipeline recomputes its full output on every invocation. The cache
// exists so that a serving daemon fronting many clients does not re-download
// the feed for every request.
//
// Features:
//
// - TTL derived from the upstream Expires / Cache-Control max-age headers
// - ETag and Last-Modified support for conditional revalidation
// - Prometheus metrics for hits, misses, errors and size
// - Deterministic cache key derived from the feed URL
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	entry, err := manager.Get(ctx, cache.KeyForURL(feedURL))
//	if err == cache.ErrCacheMiss {
//		// fetch from upstream, then manager.Set
//	}
package cache
