package syncpool

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"
)

// clamp restricts v to the closed interval [lo, hi]. golang.org/x/exp's
// constraints package is what the broader example pack reaches for to write
// this kind of tiny numeric generic helper ahead of it landing in std.
func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// bucket owns slotCap slots of *T, arbitrated by a 16-bit atomic state word
// (two bits per slot: presence at 2i, lock at 2i+1) and an atomic occupancy
// hint used as a fast-reject gate. A slot is detachable in O(1) without
// moving T's bytes, since slots store pointers, not values.
type bucket[T any] struct {
	slots [slotCap]atomic.Pointer[T]
	state atomic.Uint32 // only the low 16 bits are meaningful
	hint  atomic.Int32  // eventually consistent popcount of presence bits
}

// newBucket creates a bucket. If fill is non-nil, all slotCap slots are
// pre-populated by calling fill once per slot, and the state word/hint are
// initialized to fully present.
func newBucket[T any](fill func() *T) *bucket[T] {
	b := new(bucket[T])
	if fill != nil {
		for i := range b.slots {
			b.slots[i].Store(fill())
		}
		b.state.Store(uint32(fullBit))
		b.hint.Store(slotCap)
	}
	return b
}

// sizeHint returns the bucket's current occupancy hint, clamped to the
// valid [0, slotCap] window for display purposes; in-flight operations may
// transiently push the raw counter outside that window.
func (b *bucket[T]) sizeHint() int {
	return int(clamp(b.hint.Load(), 0, int32(slotCap)))
}

// access reserves a slot for the requested operation (get: checkout a
// present slot; put: release into an empty slot), returning its index. The
// caller must call leave exactly once, after checkout/release, for every
// successful access. Returns ok=false (busy) if no slot could be reserved
// within trialsCount CAS attempts, or if the occupancy hint rejects the
// request outright (the bucket is observably empty or would overflow).
func (b *bucket[T]) access(get bool) (pos int, ok bool) {
	var newLen int32
	if get {
		newLen = b.hint.Add(-1)
	} else {
		newLen = b.hint.Add(1)
	}
	if newLen < 0 || newLen > slotCap {
		b.revertHint(get)
		return 0, false
	}

	trials := trialsCount
	for trials > 0 {
		trials--

		state := uint16(b.state.Load())
		p, err := locate(state, get)
		if err != nil {
			cpuRelax(trials + 1)
			continue
		}

		mask := uint16(0b10) << (2 * p)
		old := fetchOr16(&b.state, mask)
		if old&mask == 0 {
			// we were the one to set the lock bit
			return int(p), true
		}

		// lost the race for this slot, back off and retry
		cpuRelax(trials + 1)
	}

	b.revertHint(get)
	return 0, false
}

func (b *bucket[T]) revertHint(get bool) {
	if get {
		b.hint.Add(1)
	} else {
		b.hint.Add(-1)
	}
}

// leave clears the lock bit for pos and flips its presence bit, publishing
// the result of a checkout (presence 1->0) or release (presence 0->1).
func (b *bucket[T]) leave(pos int) {
	mask := uint16(0b11) << (2 * pos)
	fetchXor16(&b.state, mask)
}

// checkout detaches the value owned by slot pos, handing ownership to the
// caller. Returns ok=false if the slot was unexpectedly empty, which should
// not happen when access's invariants hold, but is handled defensively.
func (b *bucket[T]) checkout(pos int) (v *T, ok bool) {
	v = b.slots[pos].Swap(nil)
	if v == nil {
		return nil, false
	}
	return v, true
}

// release installs v into slot pos, calling reset(v) first if provided. If
// the slot is unexpectedly non-empty (an invariant violation), v is dropped
// and release is a no-op: the caller still owns nothing afterwards.
func (b *bucket[T]) release(pos int, v *T, reset func(*T)) {
	if b.slots[pos].Load() != nil {
		return
	}
	if reset != nil {
		reset(v)
	}
	b.slots[pos].Store(v)
}

// fetchOr16 atomically ORs mask into the low 16 bits of a, returning the
// low 16 bits of the previous value. sync/atomic
// has no bitwise fetch-or for Uint32, so it's built from CompareAndSwap, as
// is idiomatic for Go code that needs an operation the package doesn't
// expose directly.
func fetchOr16(a *atomic.Uint32, mask uint16) uint16 {
	for {
		old := a.Load()
		next := old | uint32(mask)
		if old == next || a.CompareAndSwap(old, next) {
			return uint16(old)
		}
	}
}

// fetchXor16 atomically XORs mask into the low 16 bits of a, returning the
// previous value.
func fetchXor16(a *atomic.Uint32, mask uint16) uint16 {
	for {
		old := a.Load()
		next := old ^ uint32(mask)
		if a.CompareAndSwap(old, next) {
			return uint16(old)
		}
	}
}
