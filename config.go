package syncpool

import "time"

// Configuration constants. slotCap is a design constant: the bucket state
// word is fixed at 16 bits (two bits per slot), so changing it requires
// widening the state word and updating getMask/putMask/fullBit in lockstep.
// It is not a runtime parameter.
const (
	slotCap      = 8   // fixed slots per bucket
	poolSize     = 8   // default bucket count
	expansionCap = 512 // hard ceiling on bucket count after expand
	spinPeriod   = 4   // spin iterations, as a shift: 1<<spinPeriod
	trialsCount  = 4   // per-bucket access retries in bucket.access
)

// refillDeadline bounds how long Refill will keep retrying before giving up
// and reporting the count actually installed.
const refillDeadline = 16 * time.Millisecond

// configAllowExpansion is the only recognized bit of Pool.config.
const configAllowExpansion uint32 = 1 << 0
