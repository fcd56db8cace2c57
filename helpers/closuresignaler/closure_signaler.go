// Package closuresignaler provides a close-once signal for long-living objects.
package closuresignaler

import (
	"context"
	"sync"

	"github.com/xaionaro-go/rocvideodecode/logger"
)

type ClosureSignaler struct {
	closeOnce sync.Once
	c         chan struct{}
}

func New() *ClosureSignaler {
	return &ClosureSignaler{
		c: make(chan struct{}),
	}
}

func (c *ClosureSignaler) CloseChan() <-chan struct{} {
	return c.c
}

// Close returns true only for the call that actually closed the signal.
func (c *ClosureSignaler) Close(ctx context.Context) bool {
	logger.Tracef(ctx, "Close")
	defer func() { logger.Tracef(ctx, "/Close") }()
	closed := false
	c.closeOnce.Do(func() {
		close(c.c)
		closed = true
	})
	return closed
}

func (c *ClosureSignaler) IsClosed() bool {
	select {
	case <-c.c:
		return true
	default:
		return false
	}
}
