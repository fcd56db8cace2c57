package backend

import (
	"errors"
	"fmt"
)

var ErrClosed = errors.New("decoder is closed")

type ErrNoSuchFrame struct {
	PTS int64
}

func (e ErrNoSuchFrame) Error() string {
	return fmt.Sprintf("no frame with PTS %d is handed out", e.PTS)
}

type ErrNotImplemented struct {
	Err error
}

func (e ErrNotImplemented) Error() string {
	return fmt.Sprintf("not implemented: %v", e.Err)
}

func (e ErrNotImplemented) Unwrap() error {
	return e.Err
}
