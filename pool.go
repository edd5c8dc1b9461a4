package syncpool

import (
	"sync/atomic"
	"time"
)

// Pool is a thread-safe, pre-allocated object pool for recycling
// heap-resident values of type T. The zero value is not usable; construct
// one with New, NewSize, NewBuilder, NewBuilderSize, NewPacker, or
// NewPackerSize.
//
// A Pool is not a general-purpose allocator or memory arena. It does not
// guarantee FIFO/LIFO ordering of recycled values, does not guarantee that
// every Put succeeds, and does not track per-slot lifetime beyond
// "present"/"absent".
type Pool[T any] struct {
	buckets []*bucket[T]

	// cursor is shared between Get and Put, moving in opposite directions
	// (Get increments, Put decrements) to spread head-on producer/consumer
	// contention across different buckets under mixed workloads.
	cursor atomic.Int64

	visitors *visitorBarrier

	missCount atomic.Uint64
	config    atomic.Uint32

	// resetMu-equivalent: reset is only ever read/written while holding the
	// same barrier used for expand, so a torn read is impossible.
	reset atomic.Pointer[func(*T)]

	builder elemBuilder[T]
	logger  poolLogger
}

// New creates a Pool with the default bucket count (poolSize buckets,
// poolSize*slotCap slots), pre-filled with zero-valued *T.
func New[T any]() *Pool[T] {
	return makePool[T](poolSize, defaultBuilder[T]())
}

// NewSize creates a Pool of n/slotCap buckets (n rounded down to a whole
// number of buckets, min 1 bucket), pre-filled with zero-valued *T. The
// capacity is therefore at most n elements, except that n < slotCap still
// yields one full bucket.
func NewSize[T any](n int) *Pool[T] {
	return makePool[T](bucketsFor(n), defaultBuilder[T]())
}

// NewBuilder creates a Pool with the default bucket count, using build to
// construct every pre-filled and miss-path element.
func NewBuilder[T any](build func() T) *Pool[T] {
	return makePool[T](poolSize, withBuilder(build))
}

// NewBuilderSize is NewBuilder, sized as per NewSize.
func NewBuilderSize[T any](n int, build func() T) *Pool[T] {
	return makePool[T](bucketsFor(n), withBuilder(build))
}

// NewPacker creates a Pool with the default bucket count, using pack to
// initialize a zeroed placeholder for every pre-filled and miss-path
// element. pack must initialize every field it cares about: the
// placeholder's zero value is otherwise what the caller will observe.
func NewPacker[T any](pack func(*T) *T) *Pool[T] {
	return makePool[T](poolSize, withPacker(pack))
}

// NewPackerSize is NewPacker, sized as per NewSize.
func NewPackerSize[T any](n int, pack func(*T) *T) *Pool[T] {
	return makePool[T](bucketsFor(n), withPacker(pack))
}

// modCap reduces v into [0, n), handling the negative values that result
// from the put-path cursor's fetch_add(-1).
func modCap(v int64, n int) int {
	m := v % int64(n)
	if m < 0 {
		m += int64(n)
	}
	return int(m)
}

func bucketsFor(n int) int {
	b := n / slotCap
	if b < 1 {
		b = 1
	}
	return b
}

func makePool[T any](buckets int, builder elemBuilder[T]) *Pool[T] {
	p := &Pool[T]{
		visitors: newVisitorBarrier(),
		builder:  builder,
	}
	p.addBuckets(buckets)
	return p
}

func (p *Pool[T]) addBuckets(count int) {
	fill := p.builder.construct
	for i := 0; i < count; i++ {
		p.buckets = append(p.buckets, newBucket[T](fill))
	}
}

// Get obtains a value from the pool. It never fails: if no pooled value is
// available, or the pool is mid-expansion, a fresh *T is constructed.
func (p *Pool[T]) Get() *T {
	guard, ok := p.visitors.register(true)
	if !ok {
		return p.builder.construct()
	}

	bucketCount := len(p.buckets)
	trials := bucketCount
	pos := modCap(p.cursor.Load(), bucketCount)

	for trials > 0 {
		b := p.buckets[pos]

		if i, ok := b.access(true); ok {
			v, checkedOut := b.checkout(i)
			b.leave(i)

			if checkedOut {
				p.cursor.Store(int64(pos))
				guard.release()
				return v
			}

			// invariant violation: locked a slot that turned out empty.
			// fall through to the miss path below.
			break
		}

		cpuRelax(1 << spinPeriod)
		pos = modCap(p.cursor.Add(1), bucketCount)
		trials--
	}

	guard.release()
	p.missCount.Add(1)
	p.logger.miss(len(p.buckets))
	return p.builder.construct()
}

// Put returns v to the pool. It returns nil on success, or v itself if
// contention exhausted the trial budget (2*bucketCount attempts) before a
// slot could be reserved - the caller may retry or discard v.
func (p *Pool[T]) Put(v *T) *T {
	guard, _ := p.visitors.register(false)
	defer guard.release()

	bucketCount := len(p.buckets)
	trials := 2 * bucketCount
	pos := modCap(p.cursor.Load(), bucketCount)

	for {
		b := p.buckets[pos]

		if i, ok := b.access(false); ok {
			p.cursor.Store(int64(pos))
			b.release(i, v, p.resetFunc())
			b.leave(i)
			return nil
		}

		if trials < bucketCount {
			yieldThread()
		} else {
			cpuRelax(1 << spinPeriod)
		}

		pos = modCap(p.cursor.Add(-1), bucketCount)

		trials--
		if trials == 0 {
			p.logger.putExhausted(bucketCount)
			return v
		}
	}
}

func (p *Pool[T]) resetFunc() func(*T) {
	if f := p.reset.Load(); f != nil {
		return *f
	}
	return nil
}

// Len returns the sum of every bucket's occupancy hint: an approximate,
// eventually consistent count of values currently held by the pool.
func (p *Pool[T]) Len() int {
	total := 0
	for _, b := range p.buckets {
		total += b.sizeHint()
	}
	return total
}

// Cap returns the pool's total slot capacity (bucket count * slotCap).
func (p *Pool[T]) Cap() int {
	return len(p.buckets) * slotCap
}

// MissCount returns the number of Get calls, since the pool was created or
// last successfully expanded, that found every bucket empty or busy and had
// to construct a value. Get calls that construct a value because an
// exclusive operation (Expand, ResetHandle) is in progress are not counted.
func (p *Pool[T]) MissCount() uint64 {
	return p.missCount.Load()
}

// ExpansionEnabled reports whether Expand is currently permitted.
func (p *Pool[T]) ExpansionEnabled() bool {
	return p.config.Load()&configAllowExpansion != 0
}

// AllowExpansion enables or disables Expand, returning p for chaining.
func (p *Pool[T]) AllowExpansion(allow bool) *Pool[T] {
	for {
		old := p.config.Load()
		var next uint32
		if allow {
			next = old | configAllowExpansion
		} else {
			next = old &^ configAllowExpansion
		}
		if old == next || p.config.CompareAndSwap(old, next) {
			return p
		}
	}
}

// ResetHandle sets or replaces the reset hook invoked on every value
// returned via Put, regardless of whether the pool or the caller created
// it. The swap happens under the same exclusive barrier used by Expand, to
// avoid torn reads; if visitors fail to drain within ~16ms, ResetHandle
// gives up and leaves the previous hook in place.
func (p *Pool[T]) ResetHandle(handle func(*T)) *Pool[T] {
	if !p.raiseBarrierWithTimeout(refillDeadline) {
		return p
	}
	p.reset.Store(&handle)
	p.lowerBarrier()
	return p
}

// raiseBarrierWithTimeout raises the write barrier (if not already raised
// by someone else) and busy-waits for the visitor count to reach its
// sentinel value of 1, for up to deadline. On success the caller holds
// exclusive access and must call lowerBarrier when done.
func (p *Pool[T]) raiseBarrierWithTimeout(deadline time.Duration) bool {
	if !p.visitors.barrier.CompareAndSwap(false, true) {
		return false
	}

	count := 8
	start := nowFunc()
	for !p.visitors.visitors.CompareAndSwap(1, 0) {
		cpuRelax(count)
		if count > 4 {
			count--
		} else {
			yieldThread()
		}
		if nowFunc().Sub(start) > deadline {
			p.visitors.barrier.Store(false)
			return false
		}
	}
	return true
}

func (p *Pool[T]) lowerBarrier() {
	p.visitors.visitors.Store(1)
	p.visitors.barrier.Store(false)
}

// nowFunc is a seam for tests.
var nowFunc = time.Now

// Expand adds additional fresh buckets to the pool, if expansion is
// allowed (see AllowExpansion), the pool is below expansionCap buckets, and
// an exclusive barrier can be acquired; additional is reduced so that the
// bucket count never exceeds expansionCap. With block=true it waits
// (cooperatively, never indefinitely) for other get/put calls to drain;
// with block=false it gives up quickly if visitors haven't drained yet.
// Returns whether the expansion happened.
func (p *Pool[T]) Expand(additional int, block bool) bool {
	if !p.ExpansionEnabled() {
		p.logger.expandDenied("expansion disabled")
		return false
	}
	if len(p.buckets) >= expansionCap {
		p.logger.expandDenied("expansion cap reached")
		return false
	}

	if !p.visitors.barrier.CompareAndSwap(false, true) {
		p.logger.expandDenied("barrier already raised")
		return false
	}

	count := 8
	safe := false
	start := nowFunc()
	for {
		if p.visitors.visitors.CompareAndSwap(1, 0) {
			safe = true
			break
		}
		cpuRelax(2)
		count--
		if count < 4 {
			yieldThread()
		} else if !block {
			break
		}
		if nowFunc().Sub(start) > refillDeadline {
			break
		}
	}

	if safe {
		if room := expansionCap - len(p.buckets); additional > room {
			additional = room
		}
		p.addBuckets(additional)
		p.missCount.Store(0)
		p.logger.expanded(additional, len(p.buckets))
	} else {
		p.logger.expandDenied("visitors did not drain")
	}

	p.visitors.visitors.Store(1)
	p.visitors.barrier.Store(false)

	return safe
}

// Refill best-effort tops up the pool by constructing new values and
// Put-ing them, bounded by a ~16ms wall-clock deadline and by the pool
// already being full. Returns the count actually installed.
func (p *Pool[T]) Refill(additional int) int {
	capacity := p.Cap()
	empty := capacity - p.Len()
	if empty <= 0 {
		return 0
	}

	quota := additional
	if quota > empty {
		quota = empty
	}

	count := 0
	deadline := nowFunc().Add(refillDeadline)

	for count < quota {
		v := p.builder.construct()
		runs := 0

		for {
			ret := p.Put(v)
			if ret == nil {
				break
			}
			v = ret
			runs++

			if nowFunc().After(deadline) {
				p.logger.refilled(count)
				return count
			}
			if runs%4 == 0 && p.Len() == capacity {
				p.logger.refilled(count)
				return count
			}

			if runs > 8 {
				yieldThread()
			} else {
				cpuRelax(runs / 2)
			}
		}

		count++
	}

	p.logger.refilled(count)
	return count
}
