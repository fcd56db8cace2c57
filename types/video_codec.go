package types

import (
	"fmt"
)

// VideoCodec follows the numbering of rocDecVideoCodec.
type VideoCodec int

const (
	VideoCodecMPEG1 = VideoCodec(iota)
	VideoCodecMPEG2
	VideoCodecMPEG4
	VideoCodecAVC
	VideoCodecHEVC
	VideoCodecAV1
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecJPEG
	EndOfVideoCodec
)

func (c VideoCodec) String() string {
	switch c {
	case VideoCodecMPEG1:
		return "mpeg1"
	case VideoCodecMPEG2:
		return "mpeg2"
	case VideoCodecMPEG4:
		return "mpeg4"
	case VideoCodecAVC:
		return "avc"
	case VideoCodecHEVC:
		return "hevc"
	case VideoCodecAV1:
		return "av1"
	case VideoCodecVP8:
		return "vp8"
	case VideoCodecVP9:
		return "vp9"
	case VideoCodecJPEG:
		return "jpeg"
	}
	return fmt.Sprintf("unknown_%d", int(c))
}

func (c VideoCodec) IsValid() bool {
	return c >= 0 && c < EndOfVideoCodec
}

func VideoCodecFromString(s string) (VideoCodec, error) {
	switch sanitizeEnumString(s) {
	case "h264":
		return VideoCodecAVC, nil
	case "h265":
		return VideoCodecHEVC, nil
	}
	return parseEnum(s, EndOfVideoCodec, "video codec")
}

// Set implements pflag.Value.
func (c *VideoCodec) Set(s string) error {
	v, err := VideoCodecFromString(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Type implements pflag.Value.
func (c *VideoCodec) Type() string {
	return "codec"
}
