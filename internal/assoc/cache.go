package assoc

// Cache memoizes a lazily computed aggregate view, e.g. "all individuals
// on this world" derived from the world's cells. The only external write
// is Invalidate, which discards the memo so the next read re-aggregates
// from the live underlying collections. There is no finer-grained
// incremental invalidation.
type Cache[T any] struct {
	compute  func() T
	value    T
	computed bool
}

// NewCache returns an empty cache backed by the given aggregation.
func NewCache[T any](compute func() T) *Cache[T] {
	return &Cache[T]{compute: compute}
}

// GetOrCompute returns the memoized view, computing it on first read.
func (c *Cache[T]) GetOrCompute() T {
	if !c.computed {
		c.value = c.compute()
		c.computed = true
	}
	return c.value
}

// Invalidate resets the cache to "not yet computed".
func (c *Cache[T]) Invalidate() {
	var zero T
	c.value = zero
	c.computed = false
}

// Computed reports whether a memoized view is currently held.
func (c *Cache[T]) Computed() bool {
	return c.computed
}
