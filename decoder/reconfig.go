package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/backend"
	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/types"
)

// SetReconfigParams chooses what happens to the frames flushed when the
// stream changes resolution. It restarts the flushed frames counter.
func (d *Decoder) SetReconfigParams(
	ctx context.Context,
	flushMode types.ReconfigFlushMode,
	outputFileName string,
) (_err error) {
	logger.Debugf(ctx, "SetReconfigParams: %s '%s'", flushMode, outputFileName)
	defer func() { logger.Debugf(ctx, "/SetReconfigParams: %s '%s': %v", flushMode, outputFileName, _err) }()
	if !flushMode.IsValid() {
		return fmt.Errorf("invalid flush mode %d", flushMode)
	}
	if flushMode == types.ReconfigFlushModeDumpToFile && outputFileName == "" {
		logger.Warnf(ctx, "flush mode %s without an output file, flushed frames will only be counted", flushMode)
	}

	d.locker.Do(ctx, func() {
		d.flushMode = flushMode
		d.dumpFile = types.ReconfigDumpFile{
			DumpFramesToFile: flushMode == types.ReconfigFlushModeDumpToFile && outputFileName != "",
			OutputFileName:   outputFileName,
		}
	})
	err := d.Backend.SetReconfigParams(ctx, &backend.ReconfigParams{
		FlushMode:     flushMode,
		FlushCallback: d.flushFrames,
	})
	if err != nil {
		return fmt.Errorf("unable to set the reconfiguration params of %s: %w", d.Backend, err)
	}
	return nil
}

// ReconfigDumpFile returns the current dump settings.
func (d *Decoder) ReconfigDumpFile(ctx context.Context) types.ReconfigDumpFile {
	var dumpFile types.ReconfigDumpFile
	d.locker.Do(ctx, func() {
		dumpFile = d.dumpFile
	})
	return dumpFile
}

// flushFrames drains and releases every ready frame the backend holds at a
// reconfiguration, dumping or hashing them as the flush mode says.
func (d *Decoder) flushFrames(
	ctx context.Context,
	src backend.FrameSource,
) (_ret uint32, _err error) {
	var (
		mode     types.ReconfigFlushMode
		dumpFile types.ReconfigDumpFile
	)
	d.locker.Do(ctx, func() {
		mode, dumpFile = d.flushMode, d.dumpFile
	})
	logger.Debugf(ctx, "flushFrames: %s", mode)
	defer func() { logger.Debugf(ctx, "/flushFrames: %s: %d %v", mode, _ret, _err) }()

	var count uint32
	for {
		s, err := src.GetFrame(ctx)
		if err != nil {
			return count, fmt.Errorf("unable to get a frame to flush: %w", err)
		}
		if s == nil {
			return count, nil
		}

		switch {
		case mode == types.ReconfigFlushModeDumpToFile && dumpFile.DumpFramesToFile:
			if err := d.fileWriter.WriteSurface(ctx, dumpFile.OutputFileName, s.Info, s.Data); err != nil {
				logger.Errorf(ctx, "unable to dump the flushed frame %d: %v", s.PTS, err)
			}
		case mode == types.ReconfigFlushModeCalculateMD5:
			if err := d.updateMD5(ctx, s.Info, s.Data); err != nil {
				logger.Errorf(ctx, "unable to hash the flushed frame %d: %v", s.PTS, err)
			}
		}

		if err := src.ReleaseFrame(ctx, s.PTS); err != nil {
			return count, fmt.Errorf("unable to release the flushed frame %d: %w", s.PTS, err)
		}
		count++
	}
}
