// Package internal holds helpers shared by rocvideodecode packages.
package internal

import (
	"context"

	"github.com/xaionaro-go/rocvideodecode/logger"
)

// Assert panics (through the logger, so the message is flushed first) if
// mustBeTrue is false.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}
	logger.Panic(ctx, "assertion failed", extraArgs)
}
