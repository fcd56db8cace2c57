package types

import (
	"fmt"
)

// ReconfigFlushMode selects what happens to the frames still held by the
// decoder when the stream is reconfigured (e.g. a resolution change).
type ReconfigFlushMode int

const (
	// ReconfigFlushModeNone just drains the frames to count them.
	ReconfigFlushModeNone = ReconfigFlushMode(iota)
	// ReconfigFlushModeDumpToFile appends the drained frames to the dump file.
	ReconfigFlushModeDumpToFile
	// ReconfigFlushModeCalculateMD5 feeds the drained frames to the MD5 accumulator.
	ReconfigFlushModeCalculateMD5
	EndOfReconfigFlushMode
)

func (m ReconfigFlushMode) String() string {
	switch m {
	case ReconfigFlushModeNone:
		return "none"
	case ReconfigFlushModeDumpToFile:
		return "dump"
	case ReconfigFlushModeCalculateMD5:
		return "md5"
	}
	return fmt.Sprintf("unknown_%d", int(m))
}

func (m ReconfigFlushMode) IsValid() bool {
	return m >= 0 && m < EndOfReconfigFlushMode
}

func ReconfigFlushModeFromString(s string) (ReconfigFlushMode, error) {
	return parseEnum(s, EndOfReconfigFlushMode, "reconfig flush mode")
}

func (m *ReconfigFlushMode) Set(s string) error {
	v, err := ReconfigFlushModeFromString(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *ReconfigFlushMode) Type() string {
	return "flushmode"
}

// ReconfigDumpFile tells whether flushed frames are persisted and where.
type ReconfigDumpFile struct {
	DumpFramesToFile bool
	OutputFileName   string
}
