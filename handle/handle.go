// Package handle replaces raw memory addresses with opaque, revocable handles.
//
// A Handle carries what it refers to (Kind) and who is responsible for
// releasing it (Owner). Bytes are only reachable through the Table that
// issued the handle, so a released or superseded handle can never be used to
// touch memory that was given back.
package handle

import (
	"fmt"
)

type Kind uint8

const (
	KindNone = Kind(iota)
	// KindSurface is a decoded surface owned by the decoder's pool.
	KindSurface
	// KindRGB is the adapter's color-converted frame buffer.
	KindRGB
	// KindResized is the adapter's resized frame buffer.
	KindResized
	EndOfKind
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSurface:
		return "surface"
	case KindRGB:
		return "rgb"
	case KindResized:
		return "resized"
	}
	return fmt.Sprintf("unknown_%d", int(k))
}

type Owner uint8

const (
	OwnerNone = Owner(iota)
	// OwnerDecoder means the memory goes back to the decoder through ReleaseFrame.
	OwnerDecoder
	// OwnerAdapter means the adapter frees the memory when it is superseded or closed.
	OwnerAdapter
)

func (o Owner) String() string {
	switch o {
	case OwnerNone:
		return "none"
	case OwnerDecoder:
		return "decoder"
	case OwnerAdapter:
		return "adapter"
	}
	return fmt.Sprintf("unknown_%d", int(o))
}

type Handle struct {
	id    uint64
	kind  Kind
	owner Owner
}

// Nil is the null handle; it is also the zero value.
var Nil = Handle{}

func (h Handle) IsNil() bool {
	return h.id == 0
}

func (h Handle) ID() uint64 {
	return h.id
}

func (h Handle) Kind() Kind {
	return h.kind
}

func (h Handle) Owner() Owner {
	return h.owner
}

func (h Handle) String() string {
	if h.IsNil() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%s#%d, owner:%s)", h.kind, h.id, h.owner)
}
