package rescache

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resource struct {
	id   int
	key  string
	size int64
}

// fakeLoader records every create and dispose and flags misuse.
type fakeLoader struct {
	mu       sync.Mutex
	sizes    map[string]int64
	nextID   int
	live     map[int]bool
	pinned   map[int]int // receipts outstanding per resource, maintained by tests
	disposed []int
	problems []string
	fail     map[string]error
}

func newFakeLoader(sizes map[string]int64) *fakeLoader {
	return &fakeLoader{
		sizes:  sizes,
		live:   make(map[int]bool),
		pinned: make(map[int]int),
		fail:   make(map[string]error),
	}
}

func (l *fakeLoader) Create(key string) (*resource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail[key]; err != nil {
		return nil, err
	}
	l.nextID++
	r := &resource{id: l.nextID, key: key, size: l.sizes[key]}
	l.live[r.id] = true
	return r, nil
}

func (l *fakeLoader) SizeOf(r *resource) int64 { return r.size }

func (l *fakeLoader) Dispose(r *resource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.live[r.id] {
		l.problems = append(l.problems, fmt.Sprintf("double dispose of %d", r.id))
	}
	if l.pinned[r.id] > 0 {
		l.problems = append(l.problems, fmt.Sprintf("dispose of borrowed %d", r.id))
	}
	delete(l.live, r.id)
	l.disposed = append(l.disposed, r.id)
}

func (l *fakeLoader) pin(r *resource, delta int) {
	l.mu.Lock()
	l.pinned[r.id] += delta
	l.mu.Unlock()
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func TestCache_ScenarioE_EvictsLRUBeforeAdmitting(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 60, "b": 60})
	c := New[string, *resource](100, loader)

	a, err := c.Get("a")
	require.NoError(t, err)
	b, err := c.Get("b")
	require.NoError(t, err)

	assert.Equal(t, []int{a.id}, loader.disposed)
	assert.False(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	assert.Equal(t, 2, b.id)

	st := c.Stats()
	assert.Equal(t, int64(60), st.Bytes)
	assert.Equal(t, uint64(1), st.Evictions)
	assert.Equal(t, uint64(1), st.Disposals)
	assert.Empty(t, loader.problems)
}

func TestCache_ScenarioF_InvalidateWhileBorrowed(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 10})
	c := New[string, *resource](100, loader)

	r, err := c.Borrow("a")
	require.NoError(t, err)

	err = c.InvalidateAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceStillBorrowed)
	assert.Empty(t, loader.disposed)
	assert.True(t, c.Contains("a"))
	assert.Equal(t, "a", r.Value().key)

	r.Release()
	require.NoError(t, c.InvalidateAll())
	assert.Equal(t, []int{1}, loader.disposed)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Stats().Bytes)
}

func TestCache_GetReturnsExisting(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 1})
	c := New[string, *resource](10, loader)

	first, err := c.Get("a")
	require.NoError(t, err)
	second, err := c.Get("a")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, uint64(1), c.Stats().Created)
}

func TestCache_RecencyDecidesVictim(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 40, "b": 40, "c": 40})
	c := New[string, *resource](100, loader)

	_, _ = c.Get("a")
	_, _ = c.Get("b")
	_, _ = c.Get("a") // b is now least recently used
	_, err := c.Get("c")
	require.NoError(t, err)

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
}

func TestCache_BorrowedEntriesAreNeverEvicted(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 60, "b": 60, "c": 30})
	logger := &recordingLogger{}
	c := New[string, *resource](100, loader, WithLogger(logger), WithName("test"))

	ra, err := c.Borrow("a")
	require.NoError(t, err)

	// No evictable candidate: b is admitted over budget.
	_, err = c.Get("b")
	require.NoError(t, err)
	assert.True(t, c.Contains("a"))
	assert.True(t, c.Contains("b"))
	st := c.Stats()
	assert.Equal(t, int64(120), st.Bytes)
	assert.Equal(t, uint64(1), st.Overruns)
	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], ErrResourceExhausted.Error())
	assert.Contains(t, logger.warns[0], "test")

	// c evicts b, the only unborrowed entry.
	_, err = c.Get("c")
	require.NoError(t, err)
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.Equal(t, int64(90), c.Stats().Bytes)
	assert.Empty(t, loader.problems)

	ra.Release()
	assert.Equal(t, 0, c.Stats().Borrowed)
}

func TestCache_ReleaseTrimsWhenOverBudget(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 80, "b": 80})
	c := New[string, *resource](100, loader)

	ra, err := c.Borrow("a")
	require.NoError(t, err)
	rb, err := c.Borrow("b")
	require.NoError(t, err)
	assert.Equal(t, int64(160), c.Stats().Bytes)

	ra.Release()
	// a was the least recently used unborrowed entry.
	assert.False(t, c.Contains("a"))
	assert.Equal(t, int64(80), c.Stats().Bytes)

	rb.Release()
	assert.True(t, c.Contains("b"))
	assert.Empty(t, loader.problems)
}

func TestCache_MultipleReceiptsOnOneKey(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 60, "b": 60})
	c := New[string, *resource](100, loader)

	r1, err := c.Borrow("a")
	require.NoError(t, err)
	r2, err := c.Borrow("a")
	require.NoError(t, err)
	assert.Same(t, r1.Value(), r2.Value())
	assert.Equal(t, 2, c.Stats().Receipts)

	r1.Release()
	r1.Release() // no effect
	_, err = c.Get("b")
	require.NoError(t, err)
	assert.True(t, c.Contains("a"), "a still has a receipt")

	r2.Release()
	assert.Equal(t, 0, c.Stats().Receipts)
}

func TestCache_CreateFailureIsNotCached(t *testing.T) {
	boom := errors.New("out of device memory")
	loader := newFakeLoader(map[string]int64{"a": 10, "b": 10})
	loader.fail["b"] = boom
	c := New[string, *resource](15, loader)

	_, err := c.Get("a")
	require.NoError(t, err)

	_, err = c.Borrow("b")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("b"))
	// A failed create evicts nothing.
	assert.True(t, c.Contains("a"))

	delete(loader.fail, "b")
	r, err := c.Borrow("b")
	require.NoError(t, err)
	assert.Equal(t, "b", r.Key())
	r.Release()
}

func TestCache_Close(t *testing.T) {
	loader := newFakeLoader(map[string]int64{"a": 1})
	c := New[string, *resource](10, loader)

	r, err := c.Borrow("a")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Close(), ErrResourceStillBorrowed)

	r.Release()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Len(t, loader.disposed, 1)

	_, err = c.Get("a")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.Borrow("a")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFuncsDefaults(t *testing.T) {
	c := New[int, string](0, Funcs[int, string]{
		CreateFunc: func(k int) (string, error) { return fmt.Sprint(k), nil },
	})
	v, err := c.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "7", v)
	assert.Equal(t, int64(0), c.Stats().Bytes)
	require.NoError(t, c.InvalidateAll())
}

// Every created value is disposed exactly once, never while borrowed, and
// every disposal is an eviction or an invalidation.
func TestCache_Conservation(t *testing.T) {
	keys := []string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}
	sizes := make(map[string]int64, len(keys))
	for i, k := range keys {
		sizes[k] = int64(10 + 7*i)
	}
	loader := newFakeLoader(sizes)
	c := New[string, *resource](120, loader)

	rng := rand.New(rand.NewSource(42))
	var held []*Receipt[string, *resource]
	for step := 0; step < 5000; step++ {
		key := keys[rng.Intn(len(keys))]
		switch op := rng.Intn(10); {
		case op < 4:
			_, err := c.Get(key)
			require.NoError(t, err)
		case op < 7:
			r, err := c.Borrow(key)
			require.NoError(t, err)
			loader.pin(r.Value(), 1)
			held = append(held, r)
		case len(held) > 0:
			i := rng.Intn(len(held))
			r := held[i]
			loader.pin(r.Value(), -1)
			r.Release()
			held = append(held[:i], held[i+1:]...)
		}
		if step%1000 == 999 {
			for _, r := range held {
				loader.pin(r.Value(), -1)
				r.Release()
			}
			held = held[:0]
			require.NoError(t, c.InvalidateAll())
		}
	}
	for _, r := range held {
		loader.pin(r.Value(), -1)
		r.Release()
	}
	require.NoError(t, c.InvalidateAll())

	st := c.Stats()
	assert.Empty(t, loader.problems)
	assert.Empty(t, loader.live, "leaked values")
	assert.Equal(t, st.Created, uint64(len(loader.disposed)))
	assert.Equal(t, st.Disposals, st.Evictions+st.Invalidations)
	assert.Equal(t, st.Disposals, uint64(len(loader.disposed)))
}

func TestCache_ConcurrentBorrowRelease(t *testing.T) {
	sizes := map[string]int64{"a": 30, "b": 30, "c": 30, "d": 30}
	loader := newFakeLoader(sizes)
	c := New[string, *resource](70, loader)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			keys := []string{"a", "b", "c", "d"}
			for i := 0; i < 500; i++ {
				r, err := c.Borrow(keys[(g+i)%len(keys)])
				if err != nil {
					t.Error(err)
					return
				}
				if r.Value() == nil || r.Value().key != r.Key() {
					t.Errorf("borrowed value does not match key %s", r.Key())
				}
				r.Release()
			}
		}(g)
	}
	wg.Wait()

	require.NoError(t, c.InvalidateAll())
	assert.Empty(t, loader.problems)
	assert.Empty(t, loader.live)
}
