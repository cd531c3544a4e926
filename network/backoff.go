package network

import (
	"time"
)

// backoffPolicy computes capped exponential retry delays, decoupled from any
// specific call site.
type backoffPolicy struct {
	factor float64
	cap    time.Duration
}

// delay returns the pause before the given retry (1-based).
// The schedule is factor, factor*2, factor*4, ... seconds, bounded by cap.
func (b backoffPolicy) delay(retry int) time.Duration {
	if retry < 1 || b.factor <= 0 {
		return 0
	}
	d := time.Duration(b.factor * float64(uint(1)<<(retry-1)) * float64(time.Second))
	if b.cap > 0 && d > b.cap {
		return b.cap
	}
	return d
}

// retryStatuses is the fixed set of transient upstream statuses worth retrying
// for idempotent requests.
var retryStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}
