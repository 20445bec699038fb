// Package rendercache defines the interface for caching rendered charts.
package rendercache

// Option applies a configuration option to the InMemoryCache.
type Option func(*inMemoryCache)

// WithMaxEntries sets the maximum number of charts to keep in memory.
// If maxEntries > 0: bounded mode with oldest-first eviction.
// If maxEntries <= 0: unbounded mode (no eviction, no size limit).
func WithMaxEntries(maxEntries int) Option {
	return func(c *inMemoryCache) {
		c.maxEntries = maxEntries
	}
}
