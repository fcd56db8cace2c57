package synthetic

import (
	"encoding/binary"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/types"
)

var magic = [4]byte{'R', 'S', 'Y', 'N'}

const headerSize = 4 + 2 + 2 + 1 + 1

// Picture describes one coded picture of the synthetic bitstream.
type Picture struct {
	Width         uint16
	Height        uint16
	SurfaceFormat types.SurfaceFormat
	BitDepth      uint8
}

// Encode produces a packet that decodes into the given picture.
func Encode(pic Picture) []byte {
	buf := make([]byte, headerSize)
	copy(buf, magic[:])
	binary.BigEndian.PutUint16(buf[4:], pic.Width)
	binary.BigEndian.PutUint16(buf[6:], pic.Height)
	buf[8] = byte(pic.SurfaceFormat)
	buf[9] = pic.BitDepth
	return buf
}

func parse(data []byte) (Picture, error) {
	if len(data) < headerSize {
		return Picture{}, fmt.Errorf("packet is too short: %d < %d", len(data), headerSize)
	}
	if [4]byte(data[:4]) != magic {
		return Picture{}, fmt.Errorf("invalid magic %X", data[:4])
	}
	pic := Picture{
		Width:         binary.BigEndian.Uint16(data[4:]),
		Height:        binary.BigEndian.Uint16(data[6:]),
		SurfaceFormat: types.SurfaceFormat(data[8]),
		BitDepth:      data[9],
	}
	if pic.Width == 0 || pic.Height == 0 {
		return Picture{}, fmt.Errorf("empty picture %dx%d", pic.Width, pic.Height)
	}
	if pic.SurfaceFormat < 0 || pic.SurfaceFormat >= types.EndOfSurfaceFormat {
		return Picture{}, fmt.Errorf("unknown surface format %d", pic.SurfaceFormat)
	}
	if pic.BitDepth == 0 {
		pic.BitDepth = uint8(8 * pic.SurfaceFormat.BytesPerPixel())
		if pic.BitDepth > 8 {
			pic.BitDepth = 10
		}
	}
	return pic, nil
}
