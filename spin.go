package syncpool

import "runtime"

// cpuRelax backs off for roughly n rounds, standing in for the
// spin_loop_hint/pause instruction the lock-free access protocol uses
// between CAS attempts. Go has no portable pause intrinsic exposed to user
// code (unlike Rust's std::sync::atomic::spin_loop_hint), so this yields the
// processor via runtime.Gosched, which is the idiomatic Go substitute for a
// bounded, non-blocking backoff.
func cpuRelax(n int) {
	for i := 0; i < n; i++ {
		runtime.Gosched()
	}
}

// yieldThread cooperatively yields the current goroutine's processor,
// used by Pool.put and Pool.refill once their trial budget runs low, per
// spec.md §4.5's "yield thread once trials drop below bucket_count".
func yieldThread() {
	runtime.Gosched()
}
