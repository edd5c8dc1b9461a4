package syncpool

// zeroed allocates a zero-valued *T directly, without the caller ever
// materializing a T on the stack first. This is the Go realization of the
// Rust original's raw_box_zeroed: Go's allocator always zero-fills new
// memory (there is no allocate-without-initializing primitive exposed to
// safe Go, unlike Rust's alloc::alloc, which is why this package offers no
// "raw" counterpart to zeroed - see DESIGN.md), so new(T) already is the
// safe placement primitive for every T, including ones too large to want
// copied off the stack: escape analysis places it directly on the heap and
// the zero value is returned by pointer.
func zeroed[T any]() *T {
	return new(T)
}

// pack composes zeroed placement with a caller-supplied packer, mirroring
// the Rust original's make_box. The packer is required to initialize every
// field it cares about; since the placeholder is zero-filled (not merely
// "well-aligned but undefined", as in the Rust original), a packer that
// leaves a field untouched yields a well-defined zero value for that field,
// not undefined behavior - a strictly safer contract than the original's.
func pack[T any](packer func(*T) *T) *T {
	return packer(zeroed[T]())
}
