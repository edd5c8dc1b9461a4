package syncpool

// elemBuilder is the pool's construction-dispatch strategy: exactly one of
// the three fields below is set, mirroring the Rust original's ElemBuilder
// enum (Default/Builder/Packer), realized in Go as a small tagged struct
// since Go has no closed sum types.
type elemBuilder[T any] struct {
	build  func() T    // builder strategy
	pack   func(*T) *T // packer strategy, over a zeroed placeholder
	useDef bool        // default strategy: zero value, heap-placed
}

func defaultBuilder[T any]() elemBuilder[T] {
	return elemBuilder[T]{useDef: true}
}

func withBuilder[T any](build func() T) elemBuilder[T] {
	if build == nil {
		panic("syncpool: builder must not be nil")
	}
	return elemBuilder[T]{build: build}
}

func withPacker[T any](pack func(*T) *T) elemBuilder[T] {
	if pack == nil {
		panic("syncpool: packer must not be nil")
	}
	return elemBuilder[T]{pack: pack}
}

// construct produces one new *T according to the configured strategy.
func (e elemBuilder[T]) construct() *T {
	switch {
	case e.pack != nil:
		return pack(e.pack)
	case e.build != nil:
		v := e.build()
		return &v
	default:
		return zeroed[T]()
	}
}
