package cache

import (
	"net/url"
	"strings"
)

// keyPrefix namespaces feed entries in Redis.
const keyPrefix = "itemfeed"

// KeyForURL generates a deterministic cache key for a feed URL.
// Format: itemfeed:host/path
//
// Example:
//
//	itemfeed:hiring.example.com/hiring.json
//
// Scheme and default ports are dropped so that http/https variants of the
// same feed share one entry. An unparseable URL falls back to the raw string.
func KeyForURL(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return keyPrefix + ":" + feedURL
	}

	host := u.Host
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")

	path := strings.TrimSuffix(u.Path, "/")

	key := keyPrefix + ":" + host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
