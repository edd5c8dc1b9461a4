// Package syncpool implements a thread-safe, pre-allocated object pool for
// recycling heap-resident values of a caller-chosen type T.
//
// It is intended for programs that repeatedly allocate and discard large or
// expensive-to-initialize values on hot paths (I/O buffers, nested aggregate
// structs with owned containers, etc.). The pool trades raw allocator calls
// for a bounded set of reusable slots arbitrated by lock-free bit operations,
// falling back to fresh allocation when the pool is contended or empty.
//
// The pool is not a general-purpose allocator or memory arena, does not
// guarantee FIFO/LIFO ordering of recycled values, does not guarantee that
// every Put succeeds (callers may be handed their value back), and does not
// track per-slot lifetime beyond "present" or "absent".
package syncpool
