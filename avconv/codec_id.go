package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/rocvideodecode/types"
)

var codecIDs = map[types.VideoCodec]astiav.CodecID{
	types.VideoCodecMPEG1: astiav.CodecIDMpeg1Video,
	types.VideoCodecMPEG2: astiav.CodecIDMpeg2Video,
	types.VideoCodecMPEG4: astiav.CodecIDMpeg4,
	types.VideoCodecAVC:   astiav.CodecIDH264,
	types.VideoCodecHEVC:  astiav.CodecIDHevc,
	types.VideoCodecAV1:   astiav.CodecIDAv1,
	types.VideoCodecVP8:   astiav.CodecIDVp8,
	types.VideoCodecVP9:   astiav.CodecIDVp9,
	types.VideoCodecJPEG:  astiav.CodecIDMjpeg,
}

// CodecID returns astiav.CodecIDNone for codecs libav has no counterpart of.
func CodecID(codec types.VideoCodec) astiav.CodecID {
	if id, ok := codecIDs[codec]; ok {
		return id
	}
	return astiav.CodecIDNone
}

func VideoCodecFromCodecID(id astiav.CodecID) (types.VideoCodec, bool) {
	for codec, candidate := range codecIDs {
		if candidate == id {
			return codec, true
		}
	}
	return types.EndOfVideoCodec, false
}
