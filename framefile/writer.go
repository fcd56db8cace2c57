// Package framefile appends raw decoded frames and RGB tensors to files.
package framefile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/xaionaro-go/rocvideodecode/logger"
	"github.com/xaionaro-go/rocvideodecode/surface"
	"github.com/xaionaro-go/rocvideodecode/types"
	"github.com/xaionaro-go/xsync"
)

type outputFile struct {
	file          *os.File
	buf           *bufio.Writer
	framesWritten uint64
}

// Writer keeps one open file per output path, so frames written to the same
// path from different places end up in one stream in write order. A path is
// truncated the first time this Writer opens it; later opens (including
// after Close) append.
type Writer struct {
	locker xsync.Mutex
	files  map[string]*outputFile
	opened map[string]struct{}
}

func NewWriter() *Writer {
	return &Writer{
		files:  map[string]*outputFile{},
		opened: map[string]struct{}{},
	}
}

// Paths returns the paths that are currently open.
func (w *Writer) Paths(ctx context.Context) []string {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &w.locker, func() []string {
		result := make([]string, 0, len(w.files))
		for path := range w.files {
			result = append(result, path)
		}
		slices.Sort(result)
		return result
	})
}

// FramesWritten returns the number of frames written to path since it was
// last opened.
func (w *Writer) FramesWritten(ctx context.Context, path string) uint64 {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &w.locker, func() uint64 {
		if f, ok := w.files[path]; ok {
			return f.framesWritten
		}
		return 0
	})
}

func (w *Writer) openLocked(ctx context.Context, path string) (*outputFile, error) {
	if path == "" {
		return nil, fmt.Errorf("the output file name is empty")
	}
	if f, ok := w.files[path]; ok {
		return f, nil
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if _, ok := w.opened[path]; ok {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", path, err)
	}
	logger.Debugf(ctx, "opened '%s' for frame output", path)
	f := &outputFile{file: file, buf: bufio.NewWriterSize(file, 1<<20)}
	w.files[path] = f
	w.opened[path] = struct{}{}
	return f, nil
}

// WriteSurface appends the visible part of every plane of a surface.
func (w *Writer) WriteSurface(
	ctx context.Context,
	path string,
	info types.OutputSurfaceInfo,
	data []byte,
) (_err error) {
	logger.Tracef(ctx, "WriteSurface: '%s' %s", path, info)
	defer func() { logger.Tracef(ctx, "/WriteSurface: '%s' %s: %v", path, info, _err) }()
	if !info.MemType.IsMapped() {
		return fmt.Errorf("the surface is not mapped, nothing to write")
	}
	return xsync.DoR1(ctx, &w.locker, func() error {
		f, err := w.openLocked(ctx, path)
		if err != nil {
			return err
		}
		err = surface.ForEachVisibleRow(info, data, func(row []byte) error {
			_, err := f.buf.Write(row)
			return err
		})
		if err != nil {
			return fmt.Errorf("unable to write the frame to '%s': %w", path, err)
		}
		f.framesWritten++
		return nil
	})
}

// WriteTensor appends a packed RGB image of the given format.
func (w *Writer) WriteTensor(
	ctx context.Context,
	path string,
	data []byte,
	width, height uint32,
	format types.OutputFormat,
) (_err error) {
	logger.Tracef(ctx, "WriteTensor: '%s' %dx%d:%s", path, width, height, format)
	defer func() { logger.Tracef(ctx, "/WriteTensor: '%s' %dx%d:%s: %v", path, width, height, format, _err) }()
	if !format.IsRGB() {
		return fmt.Errorf("%s is not an RGB format", format)
	}
	size := format.ImageSize(width, height)
	if uint64(len(data)) < size {
		return fmt.Errorf("the tensor buffer is too small: %d < %d", len(data), size)
	}
	return xsync.DoR1(ctx, &w.locker, func() error {
		f, err := w.openLocked(ctx, path)
		if err != nil {
			return err
		}
		if _, err := f.buf.Write(data[:size]); err != nil {
			return fmt.Errorf("unable to write the tensor to '%s': %w", path, err)
		}
		f.framesWritten++
		return nil
	})
}

func (w *Writer) Flush(ctx context.Context) error {
	return xsync.DoR1(ctx, &w.locker, func() error {
		var result []error
		for path, f := range w.files {
			if err := f.buf.Flush(); err != nil {
				result = append(result, fmt.Errorf("unable to flush '%s': %w", path, err))
			}
		}
		return errors.Join(result...)
	})
}

// Close flushes and closes every open file.
func (w *Writer) Close(ctx context.Context) error {
	return xsync.DoA1R1(ctx, &w.locker, w.closeLocked, ctx)
}

func (w *Writer) closeLocked(ctx context.Context) error {
	var result []error
	for path, f := range w.files {
		logger.Debugf(ctx, "closing '%s' after %d frames", path, f.framesWritten)
		if err := f.buf.Flush(); err != nil {
			result = append(result, fmt.Errorf("unable to flush '%s': %w", path, err))
		}
		if err := f.file.Close(); err != nil {
			result = append(result, fmt.Errorf("unable to close '%s': %w", path, err))
		}
		delete(w.files, path)
	}
	return errors.Join(result...)
}
