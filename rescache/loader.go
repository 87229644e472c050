package rescache

// Loader creates, measures and disposes cached values.
type Loader[K comparable, V any] interface {
	Create(key K) (V, error)
	SizeOf(value V) int64
	Dispose(value V)
}

// Funcs adapts plain functions to a Loader. A nil SizeFunc sizes every value
// at zero; a nil DisposeFunc does nothing.
type Funcs[K comparable, V any] struct {
	CreateFunc  func(K) (V, error)
	SizeFunc    func(V) int64
	DisposeFunc func(V)
}

func (f Funcs[K, V]) Create(key K) (V, error) { return f.CreateFunc(key) }

func (f Funcs[K, V]) SizeOf(value V) int64 {
	if f.SizeFunc == nil {
		return 0
	}
	return f.SizeFunc(value)
}

func (f Funcs[K, V]) Dispose(value V) {
	if f.DisposeFunc != nil {
		f.DisposeFunc(value)
	}
}
