package decoder

import (
	"context"
	"crypto/md5"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/handle"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
)

// InitMD5 starts a new digest over decoded frames.
func (d *Decoder) InitMD5(ctx context.Context) {
	d.md5Locker.Do(ctx, func() {
		d.md5 = md5.New()
	})
}

// UpdateMD5ForFrame adds the visible rows of every plane of the frame.
func (d *Decoder) UpdateMD5ForFrame(
	ctx context.Context,
	h handle.Handle,
	info types.OutputSurfaceInfo,
) error {
	fb, err := d.resolve(ctx, h, handle.KindSurface, handle.KindResized)
	if err != nil {
		return fmt.Errorf("unable to resolve the frame: %w", err)
	}
	return d.updateMD5(ctx, info, fb.Data)
}

func (d *Decoder) updateMD5(
	ctx context.Context,
	info types.OutputSurfaceInfo,
	data []byte,
) error {
	return xsync.DoR1(ctx, &d.md5Locker, func() error {
		if d.md5 == nil {
			d.md5 = md5.New()
		}
		return surface.ForEachVisibleRow(info, data, func(row []byte) error {
			_, err := d.md5.Write(row)
			return err
		})
	})
}

// FinalizeMD5 writes the digest into the first md5.Size bytes of digest and
// resets the accumulator.
func (d *Decoder) FinalizeMD5(
	ctx context.Context,
	digest []byte,
) error {
	if len(digest) < md5.Size {
		return ErrShortDigestBuffer{Size: len(digest)}
	}
	d.md5Locker.Do(ctx, func() {
		if d.md5 == nil {
			d.md5 = md5.New()
		}
		copy(digest, d.md5.Sum(nil))
		d.md5 = nil
	})
	return nil
}
