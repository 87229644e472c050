// Package rescache caches expensive resources under a soft byte budget.
//
// Values are created lazily by a Loader, evicted least recently used first,
// and disposed exactly once. A Receipt pins a value: while any receipt on a
// key is outstanding the value is never evicted or disposed.
//
//	maps := rescache.New[Key, *Texture](64<<20, loader)
//	r, err := maps.Borrow(key)
//	if err != nil {
//		return err
//	}
//	defer r.Release()
//	draw(r.Value())
//
// When admitting a value would exceed the budget and every other entry is
// borrowed, the value is admitted anyway and the cache stays over budget
// until receipts are released. This is logged as ErrResourceExhausted.
//
// # Thread Safety
//
// Cache is safe for concurrent use. One mutex guards the entries, the byte
// accounting and the receipt counts; Loader methods run while it is held.
package rescache
