package indicator

import (
	"context"

	"github.com/xaionaro-go/xsync"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
)

// MAMA is the MESA Adaptive Moving Average over a ring of the last n samples.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker            xsync.Mutex
	values            []float64
	ordered           []float64
	curIdx            int
	measurementsCount int
}

var _ MovingAverage[float64] = (*MAMA[float64])(nil)

func NewMAMADefault[T Number](n int) *MAMA[T] {
	return NewMAMA[T](n, 0.5, 0.05)
}

func NewMAMA[T Number](
	n int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	if n < 1 {
		n = 1
	}
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		values:    make([]float64, n),
		ordered:   make([]float64, n),
	}
}

// Update records v and returns the smoothed value; v itself is returned
// until the ring is full.
func (m *MAMA[T]) Update(v T) T {
	ctx := xsync.WithNoLogging(context.Background(), true)
	return xsync.DoR1(ctx, &m.locker, func() T {
		m.values[m.curIdx] = float64(v)
		m.curIdx = (m.curIdx + 1) % len(m.values)

		// raw      3 4 5 6 7 0 1 2
		//                  ^ curIdx
		// ordered  0 1 2 3 4 5 6 7
		copy(m.ordered, m.values[m.curIdx:])
		copy(m.ordered[len(m.values)-m.curIdx:], m.values)

		m.measurementsCount++
		if m.measurementsCount < len(m.values) {
			return v
		}

		result := indicators.MAMA(m.ordered, m.FastLimit, m.SlowLimit)
		return T(result[len(result)-1])
	})
}

func (m *MAMA[T]) InitPeriod() int64 {
	return int64(len(m.values))
}

func (m *MAMA[T]) Valid() bool {
	ctx := xsync.WithNoLogging(context.Background(), true)
	return xsync.DoR1(ctx, &m.locker, func() bool {
		return m.measurementsCount >= len(m.values)
	})
}
