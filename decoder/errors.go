package decoder

import (
	"crypto/md5"
	"errors"
	"fmt"

	"github.com/xaionaro-go/rocvideodecode/backend"
)

var (
	ErrClosed           = backend.ErrClosed
	ErrOverheadDisabled = errors.New("session overhead accounting is disabled")
	ErrNoSurfaceInfo    = errors.New("the output surface info is not known yet")
)

type ErrShortDigestBuffer struct {
	Size int
}

func (e ErrShortDigestBuffer) Error() string {
	return fmt.Sprintf("the digest buffer is too short: %d < %d", e.Size, md5.Size)
}

type ErrNoSuchSession struct {
	SessionID uint64
}

func (e ErrNoSuchSession) Error() string {
	return fmt.Sprintf("no overhead recorded for session %d", e.SessionID)
}
