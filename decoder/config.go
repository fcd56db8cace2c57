package decoder

import (
	"github.com/xaionaro-go/rocvideodecode/types"
)

// Config is how the caller asked the decoder to be created. The adapter keeps
// it for queries; the backend consumes the parts it supports.
type Config struct {
	DeviceID         int
	MemType          types.OutputSurfaceMemoryType
	Codec            types.VideoCodec
	ForceZeroLatency bool
	CropRect         types.Rect
	MaxWidth         uint32
	MaxHeight        uint32
	ClockRate        uint32

	// OverheadSupport enables the session overhead table.
	OverheadSupport bool
}

const DefaultClockRate = 1000
