// Package avconv converts between libav values and rocvideodecode types.
package avconv

import (
	"math"

	"github.com/asticode/go-astiav"
)

const (
	// see https://ffmpeg.org/doxygen/trunk/group__lavu__time.html#ga2eaefe702f95f619ea6f2d08afa01be1
	avNoPTSValue = uint64(0x8000000000000000)
)

func init() {
	if avNoPTSValue != uint64(any(int64(math.MinInt64)).(int64)) { // to bypass the compiler check
		panic("avNoPTSValue changed")
	}
}

func IsNoPTS(ts int64) bool {
	return uint64(ts) == avNoPTSValue
}

// RescaleToClockRate converts a timestamp in timeBase units into ticks of a
// clock running at clockRate Hz. Unset timestamps become zero.
func RescaleToClockRate(ts int64, timeBase astiav.Rational, clockRate uint32) int64 {
	if IsNoPTS(ts) {
		return 0
	}
	if timeBase.Num() == 0 || timeBase.Den() == 0 || clockRate == 0 {
		return ts
	}
	return int64(math.Round(float64(ts) * timeBase.Float64() * float64(clockRate)))
}
