package indicator

import (
	"time"
)

// Rate turns samples of a monotonic counter (e.g. decoded frames) into a
// smoothed per-second rate.
type Rate struct {
	average   MovingAverage[float64]
	lastCount uint64
	lastTS    time.Time
	started   bool
}

func NewRate(average MovingAverage[float64]) *Rate {
	return &Rate{average: average}
}

// Observe records the counter value at ts and returns the smoothed rate.
// The first observation only sets the baseline and returns 0.
func (r *Rate) Observe(count uint64, ts time.Time) float64 {
	if !r.started {
		r.started = true
		r.lastCount, r.lastTS = count, ts
		return 0
	}
	elapsed := ts.Sub(r.lastTS)
	if elapsed <= 0 || count < r.lastCount {
		r.lastCount, r.lastTS = count, ts
		return 0
	}
	instant := float64(count-r.lastCount) / elapsed.Seconds()
	r.lastCount, r.lastTS = count, ts
	return r.average.Update(instant)
}
