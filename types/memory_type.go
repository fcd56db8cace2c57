package types

import (
	"fmt"
)

// OutputSurfaceMemoryType tells where decoded surfaces live.
type OutputSurfaceMemoryType int

const (
	// MemoryTypeDevInternal exposes the decoder's internal device memory.
	MemoryTypeDevInternal = OutputSurfaceMemoryType(iota)
	// MemoryTypeDevCopied copies each surface into a separate device buffer.
	MemoryTypeDevCopied
	// MemoryTypeHostCopied copies each surface into host memory.
	MemoryTypeHostCopied
	// MemoryTypeNotMapped decodes without mapping surfaces at all.
	MemoryTypeNotMapped
	EndOfOutputSurfaceMemoryType
)

func (t OutputSurfaceMemoryType) String() string {
	switch t {
	case MemoryTypeDevInternal:
		return "dev_internal"
	case MemoryTypeDevCopied:
		return "dev_copied"
	case MemoryTypeHostCopied:
		return "host_copied"
	case MemoryTypeNotMapped:
		return "not_mapped"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

func (t OutputSurfaceMemoryType) IsMapped() bool {
	return t != MemoryTypeNotMapped
}

func OutputSurfaceMemoryTypeFromString(s string) (OutputSurfaceMemoryType, error) {
	return parseEnum(s, EndOfOutputSurfaceMemoryType, "memory type")
}

func (t *OutputSurfaceMemoryType) Set(s string) error {
	v, err := OutputSurfaceMemoryTypeFromString(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *OutputSurfaceMemoryType) Type() string {
	return "memtype"
}
