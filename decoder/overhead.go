package decoder

import (
	"context"
	"time"

	"github.com/xaionaro-go/xsync"
)

// AddDecoderSessionOverhead accumulates the time a session spent outside of
// decoding (creating and destroying the decoder).
func (d *Decoder) AddDecoderSessionOverhead(
	ctx context.Context,
	sessionID uint64,
	duration time.Duration,
) error {
	if !d.Config.OverheadSupport {
		return ErrOverheadDisabled
	}
	d.overheadLocker.Do(ctx, func() {
		d.overheads[sessionID] += duration
	})
	return nil
}

func (d *Decoder) DecoderSessionOverhead(
	ctx context.Context,
	sessionID uint64,
) (time.Duration, error) {
	if !d.Config.OverheadSupport {
		return 0, ErrOverheadDisabled
	}
	return xsync.DoR2(ctx, &d.overheadLocker, func() (time.Duration, error) {
		v, ok := d.overheads[sessionID]
		if !ok {
			return 0, ErrNoSuchSession{SessionID: sessionID}
		}
		return v, nil
	})
}
