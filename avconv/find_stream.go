package avconv

import (
	"github.com/asticode/go-astiav"
)

func FindStreamByIndex(
	fmtCtx *astiav.FormatContext,
	streamIndex int,
) *astiav.Stream {
	for _, stream := range fmtCtx.Streams() {
		if stream.Index() == streamIndex {
			return stream
		}
	}
	return nil
}

// FindFirstVideoStream returns nil if the container has no video.
func FindFirstVideoStream(fmtCtx *astiav.FormatContext) *astiav.Stream {
	for _, stream := range fmtCtx.Streams() {
		if stream.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			return stream
		}
	}
	return nil
}
