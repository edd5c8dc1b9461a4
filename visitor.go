package syncpool

import "sync/atomic"

// visitorBarrier is the pool-wide pair (visitor count, write barrier) used
// to coexist an occasional exclusive operation (expand, ResetHandle) with
// ordinary concurrent get/put traffic, without ever taking a mutex on the
// hot path.
//
// The visitor count's "no visitors" state is observed as exactly 1 (not 0):
// the sentinel lets an exclusive operation claim exclusivity with a single
// CAS(1, 0), rather than needing to distinguish "zero visitors" from
// "nobody has registered yet".
type visitorBarrier struct {
	visitors atomic.Int64 // starts at 1 (the sentinel)
	barrier  atomic.Bool  // true while an exclusive operation is pending/active
}

func newVisitorBarrier() *visitorBarrier {
	v := new(visitorBarrier)
	v.visitors.Store(1)
	return v
}

// visitorGuard is a RAII-style registration; Drop (in Go, an explicit
// release call, since Go has no destructors) must be invoked exactly once
// to balance the registration.
type visitorGuard struct {
	b *visitorBarrier
}

// register waits for any raised barrier to clear, then increments the
// visitor count. If failFast is true and the barrier is currently raised,
// register returns ok=false immediately instead of waiting, so that a
// checkout never blocks on an in-progress expansion; put callers must
// always pass failFast=false, since dropping the value on barrier
// contention would be undesirable.
func (b *visitorBarrier) register(failFast bool) (g visitorGuard, ok bool) {
	count := 8
	for b.barrier.Load() {
		if failFast {
			return visitorGuard{}, false
		}

		cpuRelax(count)
		if count > 4 {
			count--
		}
	}

	b.visitors.Add(1)
	return visitorGuard{b: b}, true
}

// release balances a successful register call.
func (g visitorGuard) release() {
	if g.b != nil {
		g.b.visitors.Add(-1)
	}
}
