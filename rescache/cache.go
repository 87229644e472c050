package rescache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrResourceStillBorrowed is returned by InvalidateAll and Close while
	// receipts are outstanding. Nothing is disposed in that case.
	ErrResourceStillBorrowed = errors.New("rescache: resource still borrowed")

	// ErrResourceExhausted marks a soft budget overrun. It is logged, never
	// returned.
	ErrResourceExhausted = errors.New("rescache: budget exhausted")

	// ErrClosed is returned when using a closed cache.
	ErrClosed = errors.New("rescache: cache closed")
)

// Logger receives cache diagnostics.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Option configures a Cache.
type Option func(*options)

type options struct {
	logger Logger
	name   string
}

// WithLogger sends eviction and overrun diagnostics to l.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels the cache in log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

type entry[K comparable, V any] struct {
	key      K
	value    V
	size     int64
	receipts int
	elem     *list.Element
}

// Stats is a snapshot of a cache's state and lifetime counters.
type Stats struct {
	Entries  int
	Bytes    int64
	Budget   int64
	Borrowed int // entries with at least one receipt
	Receipts int

	Created       uint64
	Evictions     uint64
	Invalidations uint64
	Disposals     uint64
	Overruns      uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("Cache[%d entries, %d/%d bytes, %d borrowed, %d created, %d evicted, %d disposed]",
		s.Entries, s.Bytes, s.Budget, s.Borrowed, s.Created, s.Evictions, s.Disposals)
}

// Cache is a size-budgeted cache of values produced by a Loader.
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	loader  Loader[K, V]
	budget  int64
	used    int64
	entries map[K]*entry[K, V]
	lru     *list.List // front is most recently used
	opts    options
	closed  bool

	created       uint64
	evictions     uint64
	invalidations uint64
	disposals     uint64
	overruns      uint64
}

// New creates a cache that tries to keep the total size of its values at or
// below budget bytes.
func New[K comparable, V any](budget int64, loader Loader[K, V], opts ...Option) *Cache[K, V] {
	o := options{logger: nopLogger{}, name: "rescache"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		loader:  loader,
		budget:  budget,
		entries: make(map[K]*entry[K, V]),
		lru:     list.New(),
		opts:    o,
	}
}

// Get returns the value for key, creating it if needed. The value may be
// evicted by any later call; use Borrow to keep it alive.
func (c *Cache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.acquire(key)
	if err != nil {
		var zero V
		return zero, err
	}
	return e.value, nil
}

// Borrow returns a receipt for the value of key, creating it if needed. The
// value stays cached until the receipt is released.
func (c *Cache[K, V]) Borrow(key K) (*Receipt[K, V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.acquire(key)
	if err != nil {
		return nil, err
	}
	e.receipts++
	return &Receipt[K, V]{cache: c, entry: e}, nil
}

// acquire finds or creates the entry for key and marks it most recently used.
// c.mu must be held.
func (c *Cache[K, V]) acquire(key K) (*entry[K, V], error) {
	if c.closed {
		return nil, ErrClosed
	}
	if e, ok := c.entries[key]; ok {
		c.lru.MoveToFront(e.elem)
		return e, nil
	}

	value, err := c.loader.Create(key)
	if err != nil {
		return nil, fmt.Errorf("%s: create %v: %w", c.opts.name, key, err)
	}
	c.created++
	size := c.loader.SizeOf(value)
	if size < 0 {
		size = 0
	}

	c.evict(size)

	e := &entry[K, V]{key: key, value: value, size: size}
	e.elem = c.lru.PushFront(e)
	c.entries[key] = e
	c.used += size

	if c.used > c.budget {
		c.overruns++
		c.opts.logger.Warnf("%s: %v: admitted %v (%d bytes), now %d/%d bytes with %d entries borrowed",
			c.opts.name, ErrResourceExhausted, key, size, c.used, c.budget, c.borrowedLocked())
	}
	return e, nil
}

// evict disposes least recently used unborrowed entries until incoming more
// bytes fit in the budget or nothing else can go. c.mu must be held.
func (c *Cache[K, V]) evict(incoming int64) {
	for el := c.lru.Back(); el != nil && c.used+incoming > c.budget; {
		prev := el.Prev()
		e := el.Value.(*entry[K, V])
		if e.receipts == 0 {
			c.remove(e)
			c.evictions++
			c.opts.logger.Debugf("%s: evicted %v (%d bytes), now %d/%d bytes", c.opts.name, e.key, e.size, c.used, c.budget)
		}
		el = prev
	}
}

// remove unlinks and disposes e. c.mu must be held.
func (c *Cache[K, V]) remove(e *entry[K, V]) {
	c.lru.Remove(e.elem)
	delete(c.entries, e.key)
	c.used -= e.size
	c.disposals++
	c.loader.Dispose(e.value)
	var zero V
	e.value = zero
}

func (c *Cache[K, V]) release(r *Receipt[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	e := r.entry
	e.receipts--
	if e.receipts == 0 && c.used > c.budget {
		c.evict(0)
	}
}

func (c *Cache[K, V]) borrowedLocked() int {
	n := 0
	for _, e := range c.entries {
		if e.receipts > 0 {
			n++
		}
	}
	return n
}

// InvalidateAll disposes every value. It fails without disposing anything if
// any receipt is outstanding.
func (c *Cache[K, V]) InvalidateAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidateLocked()
}

func (c *Cache[K, V]) invalidateLocked() error {
	if n := c.borrowedLocked(); n > 0 {
		return fmt.Errorf("%s: %w: %d of %d entries", c.opts.name, ErrResourceStillBorrowed, n, len(c.entries))
	}
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		c.remove(el.Value.(*entry[K, V]))
		c.invalidations++
		el = prev
	}
	return nil
}

// Close invalidates the cache and refuses further use. Closing an already
// closed cache is a no-op.
func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if err := c.invalidateLocked(); err != nil {
		return err
	}
	c.closed = true
	return nil
}

// Contains reports whether key currently has a cached value. It does not
// update recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of cached values.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:       len(c.entries),
		Bytes:         c.used,
		Budget:        c.budget,
		Created:       c.created,
		Evictions:     c.evictions,
		Invalidations: c.invalidations,
		Disposals:     c.disposals,
		Overruns:      c.overruns,
	}
	for _, e := range c.entries {
		if e.receipts > 0 {
			s.Borrowed++
			s.Receipts += e.receipts
		}
	}
	return s
}
