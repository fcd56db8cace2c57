package session

import (
	"context"

	"github.com/xaionaro-go/rocvideodecode/backend/synthetic"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// packetSource is what feeds a session with compressed packets.
type packetSource interface {
	DemuxFrame(ctx context.Context, pkt *types.PacketData) error
	Close(ctx context.Context) error
}

// syntheticSource emits pictures of the synthetic bitstream. If resizeEvery
// is non-zero, every resizeEvery pictures the height alternates between dim
// and half of it, which makes the decoder reconfigure.
type syntheticSource struct {
	dim         types.Dim
	frames      int
	resizeEvery int
	emitted     int
}

func (s *syntheticSource) DemuxFrame(
	_ context.Context,
	pkt *types.PacketData,
) error {
	pkt.PacketFlags = 0
	pkt.Bitstream = pkt.Bitstream[:0]
	if s.emitted >= s.frames {
		pkt.EndOfStream = true
		pkt.FramePTS = 0
		return nil
	}
	pic := synthetic.Picture{
		Width:         uint16(s.dim.Width),
		Height:        uint16(s.dim.Height),
		SurfaceFormat: types.SurfaceFormatNV12,
	}
	if s.resizeEvery > 0 && (s.emitted/s.resizeEvery)%2 == 1 {
		pic.Height = uint16((s.dim.Height/2 + 1) &^ 1)
	}
	pkt.EndOfStream = false
	pkt.Bitstream = append(pkt.Bitstream, synthetic.Encode(pic)...)
	pkt.FramePTS = int64(s.emitted)
	if s.emitted == 0 {
		pkt.PacketFlags = types.PacketFlagKeyFrame
	}
	s.emitted++
	return nil
}

func (s *syntheticSource) Close(context.Context) error {
	return nil
}
