package types

import (
	"github.com/xaionaro-go/rocvideodecode/handle"
)

type PacketFlags uint32

const (
	PacketFlagKeyFrame = PacketFlags(1 << iota)
	PacketFlagDiscontinuity
)

func (f PacketFlags) Has(flag PacketFlags) bool {
	return f&flag != 0
}

// PacketData is the record passed back and forth between the caller and the
// decoder adapter: the demuxer fills the bitstream part, the adapter fills the
// frame part.
type PacketData struct {
	EndOfStream bool
	PacketFlags PacketFlags
	FramePTS    int64
	Bitstream   []byte

	FrameHandle        handle.Handle
	FrameHandleRGB     handle.Handle
	FrameHandleResized handle.Handle
	FrameSize          uint64
}

// BitstreamSize returns the size of the compressed payload.
func (p *PacketData) BitstreamSize() int {
	return len(p.Bitstream)
}

// ResetFrame clears the adapter-filled part.
func (p *PacketData) ResetFrame() {
	p.FrameHandle = handle.Nil
	p.FrameHandleRGB = handle.Nil
	p.FrameHandleResized = handle.Nil
	p.FrameSize = 0
}
