package rescache

// Receipt pins a cached value until Release is called.
type Receipt[K comparable, V any] struct {
	cache    *Cache[K, V]
	entry    *entry[K, V]
	released bool
}

// Key returns the key the receipt was issued for.
func (r *Receipt[K, V]) Key() K { return r.entry.key }

// Value returns the pinned value. It must not be used after Release.
func (r *Receipt[K, V]) Value() V { return r.entry.value }

// Release returns the receipt. Releasing twice has no further effect.
func (r *Receipt[K, V]) Release() {
	r.cache.release(r)
}
