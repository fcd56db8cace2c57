// Package surfacequeue implements the frame bookkeeping shared by all
// backends: the ready queue, handed-out frames, and reconfiguration flushes.
package surfacequeue

import (
	"context"
	"fmt"
	"slices"

	"github.com/facebookincubator/go-belt"
	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
)

type Queue struct {
	locker         xsync.Mutex
	info           types.OutputSurfaceInfo
	hasInfo        bool
	ready          []*surface.Surface
	handedOut      []*surface.Surface
	reconfig       *backend.ReconfigParams
	flushedCount   uint32
	newlyAvailable int
	closed         bool
}

var _ backend.FrameSource = (*Queue)(nil)

func New() *Queue {
	return &Queue{}
}

// EmitFunc hands a decoded surface to the queue.
type EmitFunc func(ctx context.Context, s *surface.Surface) error

// Decode runs decodeFn and returns how many of the frames it emitted are
// still ready afterwards (frames flushed by a reconfiguration during the call
// are not counted).
func (q *Queue) Decode(
	ctx context.Context,
	decodeFn func(emit EmitFunc) error,
) (_ret int, _err error) {
	logger.Tracef(ctx, "Decode")
	defer func() { logger.Tracef(ctx, "/Decode: %d %v", _ret, _err) }()

	err := xsync.DoR1(ctx, &q.locker, func() error {
		if q.closed {
			return backend.ErrClosed
		}
		q.newlyAvailable = 0
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = decodeFn(q.push)
	count := xsync.DoR1(ctx, &q.locker, func() int {
		return q.newlyAvailable
	})
	return count, err
}

func (q *Queue) push(
	ctx context.Context,
	s *surface.Surface,
) error {
	needsReconfig := xsync.DoR1(ctx, &q.locker, func() bool {
		return q.hasInfo && !SameGeometry(q.info, s.Info)
	})
	if needsReconfig {
		if err := q.Reconfigure(ctx, s.Info); err != nil {
			return fmt.Errorf("unable to reconfigure to %s: %w", s.Info, err)
		}
	}

	return xsync.DoR1(ctx, &q.locker, func() error {
		if q.closed {
			return backend.ErrClosed
		}
		q.info, q.hasInfo = s.Info, true
		q.ready = append(q.ready, s)
		q.newlyAvailable++
		return nil
	})
}

// SameGeometry reports whether switching from a to b needs no reconfiguration.
func SameGeometry(a, b types.OutputSurfaceInfo) bool {
	return a.OutputWidth == b.OutputWidth &&
		a.OutputHeight == b.OutputHeight &&
		a.SurfaceFormat == b.SurfaceFormat &&
		a.BitDepth == b.BitDepth
}

// Reconfigure flushes the ready frames through the flush callback and
// switches to the new surface description.
func (q *Queue) Reconfigure(
	ctx context.Context,
	newInfo types.OutputSurfaceInfo,
) (_err error) {
	ctx = belt.WithField(ctx, "new_surface", newInfo.String())
	logger.Debugf(ctx, "Reconfigure")
	defer func() { logger.Debugf(ctx, "/Reconfigure: %v", _err) }()

	params := xsync.DoR1(ctx, &q.locker, func() *backend.ReconfigParams {
		return q.reconfig
	})

	var flushed uint32
	if params != nil && params.FlushCallback != nil {
		var err error
		flushed, err = params.FlushCallback(ctx, q)
		if err != nil {
			return fmt.Errorf("the flush callback (mode %s) failed: %w", params.FlushMode, err)
		}
	}

	q.locker.Do(ctx, func() {
		if len(q.ready) > 0 {
			if params != nil && params.FlushCallback != nil {
				logger.Warnf(ctx, "the flush callback left %d frames undrained, dropping them", len(q.ready))
			}
			flushed += uint32(len(q.ready))
			q.ready = q.ready[:0]
		}
		q.flushedCount += flushed
		q.newlyAvailable = 0
		q.info, q.hasInfo = newInfo, true
	})
	logger.Debugf(ctx, "flushed %d frames", flushed)
	return nil
}

func (q *Queue) GetFrame(ctx context.Context) (*surface.Surface, error) {
	return xsync.DoR2(xsync.WithNoLogging(ctx, true), &q.locker, func() (*surface.Surface, error) {
		if q.closed {
			return nil, backend.ErrClosed
		}
		if len(q.ready) == 0 {
			return nil, nil
		}
		s := q.ready[0]
		q.ready = slices.Delete(q.ready, 0, 1)
		q.handedOut = append(q.handedOut, s)
		return s, nil
	})
}

func (q *Queue) ReleaseFrame(ctx context.Context, pts int64) error {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() error {
		idx := slices.IndexFunc(q.handedOut, func(s *surface.Surface) bool {
			return s.PTS == pts
		})
		if idx < 0 {
			return backend.ErrNoSuchFrame{PTS: pts}
		}
		q.handedOut = slices.Delete(q.handedOut, idx, idx+1)
		return nil
	})
}

func (q *Queue) OutputSurfaceInfo(ctx context.Context) (types.OutputSurfaceInfo, bool) {
	var (
		info types.OutputSurfaceInfo
		ok   bool
	)
	q.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		info, ok = q.info, q.hasInfo
	})
	return info, ok
}

func (q *Queue) SetReconfigParams(ctx context.Context, params *backend.ReconfigParams) error {
	q.locker.Do(ctx, func() {
		q.reconfig = params
		q.flushedCount = 0
	})
	return nil
}

func (q *Queue) NumOfFlushedFrames(ctx context.Context) uint32 {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() uint32 {
		return q.flushedCount
	})
}

// NumReady returns the number of frames waiting for GetFrame.
func (q *Queue) NumReady(ctx context.Context) int {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() int {
		return len(q.ready)
	})
}

// NumHandedOut returns the number of frames fetched but not released yet.
func (q *Queue) NumHandedOut(ctx context.Context) int {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &q.locker, func() int {
		return len(q.handedOut)
	})
}

func (q *Queue) Close(ctx context.Context) error {
	q.locker.Do(ctx, func() {
		if len(q.handedOut) > 0 {
			logger.Warnf(ctx, "closing with %d frames not released", len(q.handedOut))
		}
		q.closed = true
		q.ready = nil
		q.handedOut = nil
	})
	return nil
}
