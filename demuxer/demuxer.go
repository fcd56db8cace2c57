// Package demuxer reads compressed video packets from a container.
package demuxer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/rocvideodecode/avconv"
	"github.com/xaionaro-go/rocvideodecode/internal"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const DefaultClockRate = 1000

type Config struct {
	// ClockRate is the rate (in Hz) of the PTS values DemuxFrame reports.
	ClockRate uint32
	// FormatName forces the container format (e.g. "h264" for raw streams).
	FormatName string
}

type Demuxer struct {
	URL    string
	Config Config

	locker        xsync.Mutex
	closer        *astikit.Closer
	formatContext *astiav.FormatContext
	stream        *astiav.Stream
	packet        *astiav.Packet
	codec         types.VideoCodec
	eof           bool

	packetsRead atomic.Uint64
}

func New(
	ctx context.Context,
	url string,
	cfg Config,
) (_ret *Demuxer, _err error) {
	logger.Debugf(ctx, "demuxer.New: '%s'", url)
	defer func() { logger.Debugf(ctx, "/demuxer.New: '%s': %v", url, _err) }()
	if cfg.ClockRate == 0 {
		cfg.ClockRate = DefaultClockRate
	}

	d := &Demuxer{
		URL:    url,
		Config: cfg,
		closer: astikit.NewCloser(),
	}
	defer func() {
		if _err != nil {
			_ = d.closer.Close()
		}
	}()

	if IsFileURL(url) {
		if _, err := os.Stat(strings.TrimPrefix(url, "file://")); err != nil {
			return nil, fmt.Errorf("unable to access the input file: %w", err)
		}
	}

	formatName := cfg.FormatName
	if formatName == "" {
		formatName = FormatNameFromURL(url)
	}
	var inputFormat *astiav.InputFormat
	if formatName != "" {
		logger.Debugf(ctx, "input format: %s", formatName)
		inputFormat = astiav.FindInputFormat(formatName)
		if inputFormat == nil {
			return nil, fmt.Errorf("unable to find input format by name '%s'", formatName)
		}
	}

	d.formatContext = astiav.AllocFormatContext()
	if d.formatContext == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	d.closer.Add(d.formatContext.Free)

	if err := d.formatContext.OpenInput(url, inputFormat, nil); err != nil {
		return nil, fmt.Errorf("unable to open input by URL '%s': %w", url, err)
	}
	d.closer.Add(d.formatContext.CloseInput)

	if err := d.formatContext.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	d.stream = avconv.FindFirstVideoStream(d.formatContext)
	if d.stream == nil {
		return nil, fmt.Errorf("'%s' has no video streams", url)
	}
	codecID := d.stream.CodecParameters().CodecID()
	codec, ok := avconv.VideoCodecFromCodecID(codecID)
	if !ok {
		return nil, fmt.Errorf("the video codec %s is not supported", codecID)
	}
	d.codec = codec
	logger.Debugf(ctx, "video stream #%d: %s %dx%d", d.stream.Index(), codec,
		d.stream.CodecParameters().Width(), d.stream.CodecParameters().Height())

	d.packet = astiav.AllocPacket()
	d.closer.Add(d.packet.Free)
	return d, nil
}

func (d *Demuxer) String() string {
	return fmt.Sprintf("Demuxer('%s')", d.URL)
}

// CodecID returns the codec of the video stream.
func (d *Demuxer) CodecID() types.VideoCodec {
	return d.codec
}

// CodecParameters returns a copy of what a decoder of the stream needs
// (extradata etc). The copy outlives the demuxer and is freed by the GC.
func (d *Demuxer) CodecParameters(ctx context.Context) (*astiav.CodecParameters, error) {
	cp := astiav.AllocCodecParameters()
	internal.SetFinalizerFree(ctx, cp)
	if err := d.stream.CodecParameters().Copy(cp); err != nil {
		return nil, fmt.Errorf("unable to copy the codec parameters: %w", err)
	}
	return cp, nil
}

func (d *Demuxer) Dim() types.Dim {
	cp := d.stream.CodecParameters()
	return types.Dim{Width: uint32(cp.Width()), Height: uint32(cp.Height())}
}

func (d *Demuxer) PacketsRead() uint64 {
	return d.packetsRead.Load()
}

// DemuxFrame fills the bitstream part of pkt with the next video packet. At
// the end of the input it sets EndOfStream and an empty bitstream.
func (d *Demuxer) DemuxFrame(
	ctx context.Context,
	pkt *types.PacketData,
) (_err error) {
	logger.Tracef(ctx, "DemuxFrame")
	defer func() { logger.Tracef(ctx, "/DemuxFrame: %v", _err) }()
	return xsync.DoA2R1(ctx, &d.locker, d.demuxFrameLocked, ctx, pkt)
}

func (d *Demuxer) demuxFrameLocked(
	ctx context.Context,
	pkt *types.PacketData,
) error {
	if d.formatContext == nil {
		return fmt.Errorf("the demuxer is closed")
	}
	pkt.EndOfStream = false
	pkt.PacketFlags = 0
	pkt.Bitstream = pkt.Bitstream[:0]
	pkt.FramePTS = 0
	if d.eof {
		pkt.EndOfStream = true
		return nil
	}

	for {
		err := d.formatContext.ReadFrame(d.packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEof), errors.Is(err, astiav.ErrEio):
			logger.Debugf(ctx, "end of '%s' after %d packets", d.URL, d.packetsRead.Load())
			d.eof = true
			pkt.EndOfStream = true
			return nil
		default:
			return fmt.Errorf("unable to read a frame: %w", err)
		}

		if d.packet.StreamIndex() != d.stream.Index() {
			d.packet.Unref()
			continue
		}

		pkt.Bitstream = append(pkt.Bitstream, d.packet.Data()...)
		pkt.FramePTS = avconv.RescaleToClockRate(d.packet.Pts(), d.stream.TimeBase(), d.Config.ClockRate)
		if d.packet.Flags().Has(astiav.PacketFlagKey) {
			pkt.PacketFlags |= types.PacketFlagKeyFrame
		}
		d.packet.Unref()
		d.packetsRead.Inc()
		return nil
	}
}

func (d *Demuxer) Close(ctx context.Context) error {
	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.formatContext == nil {
			return nil
		}
		d.formatContext = nil
		return d.closer.Close()
	})
}
