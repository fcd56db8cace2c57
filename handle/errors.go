package handle

import (
	"errors"
	"fmt"
)

var ErrNilHandle = errors.New("nil handle")

type ErrStaleHandle struct {
	Handle Handle
}

func (e ErrStaleHandle) Error() string {
	return fmt.Sprintf("%s is released or was never issued", e.Handle)
}

type ErrUnexpectedKind struct {
	Handle   Handle
	Expected []Kind
}

func (e ErrUnexpectedKind) Error() string {
	return fmt.Sprintf("%s is of kind %s, expected one of %v", e.Handle, e.Handle.kind, e.Expected)
}
