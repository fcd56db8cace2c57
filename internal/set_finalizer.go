package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/rocvideodecode/logger"
)

// SetFinalizerFree makes the GC call Free on native objects nobody closed.
func SetFinalizerFree[T interface{ Free() }](
	ctx context.Context,
	freer T,
) {
	runtime.SetFinalizer(freer, func(freer T) {
		logger.Debugf(ctx, "freeing %T", freer)
		freer.Free()
	})
}
