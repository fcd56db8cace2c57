// Package backend defines the contract of the native decoders the adapter
// wraps.
package backend

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// Packet is a compressed access unit as the native decoder accepts it.
type Packet struct {
	Data        []byte
	PTS         int64
	Flags       types.PacketFlags
	EndOfStream bool
}

// FrameSource hands out decoded surfaces in display order.
type FrameSource interface {
	// GetFrame returns nil (and no error) if no frame is ready.
	GetFrame(ctx context.Context) (*surface.Surface, error)
	ReleaseFrame(ctx context.Context, pts int64) error
}

// FlushCallback is called once per reconfiguration event, before the decoder
// switches to the new stream parameters. It must drain src and returns the
// number of frames it drained.
type FlushCallback func(ctx context.Context, src FrameSource) (uint32, error)

type ReconfigParams struct {
	FlushMode     types.ReconfigFlushMode
	FlushCallback FlushCallback
}

type VideoDecoder interface {
	fmt.Stringer
	FrameSource

	// DecodeFrame submits a packet and returns how many frames became ready.
	// An end-of-stream packet drains the decoder.
	DecodeFrame(ctx context.Context, pkt Packet) (int, error)

	// OutputSurfaceInfo returns false until the first sequence is parsed.
	OutputSurfaceInfo(ctx context.Context) (types.OutputSurfaceInfo, bool)
	DeviceInfo(ctx context.Context) types.ConfigInfo

	// SetReconfigParams also restarts the flushed frames counter.
	SetReconfigParams(ctx context.Context, params *ReconfigParams) error
	NumOfFlushedFrames(ctx context.Context) uint32

	Close(ctx context.Context) error
}
