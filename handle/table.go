package handle

import (
	"context"
	"slices"

	"github.com/xaionaro-go/xsync"
)

// Table issues handles for values of type T and resolves them back.
type Table[T any] struct {
	locker  xsync.Mutex
	lastID  uint64
	entries map[uint64]tableEntry[T]
}

type tableEntry[T any] struct {
	handle Handle
	value  T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries: map[uint64]tableEntry[T]{},
	}
}

func (t *Table[T]) Register(
	ctx context.Context,
	kind Kind,
	owner Owner,
	value T,
) Handle {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &t.locker, func() Handle {
		t.lastID++
		h := Handle{id: t.lastID, kind: kind, owner: owner}
		t.entries[h.id] = tableEntry[T]{handle: h, value: value}
		return h
	})
}

// Resolve returns the value behind h; if kinds are given, the handle must be
// of one of them.
func (t *Table[T]) Resolve(
	ctx context.Context,
	h Handle,
	kinds ...Kind,
) (T, error) {
	var (
		value T
		err   error
	)
	t.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		value, err = t.resolveLocked(h, kinds...)
	})
	return value, err
}

func (t *Table[T]) resolveLocked(
	h Handle,
	kinds ...Kind,
) (T, error) {
	var zero T
	if h.IsNil() {
		return zero, ErrNilHandle
	}
	entry, ok := t.entries[h.id]
	if !ok || entry.handle != h {
		return zero, ErrStaleHandle{Handle: h}
	}
	if len(kinds) > 0 && !slices.Contains(kinds, h.kind) {
		return zero, ErrUnexpectedKind{Handle: h, Expected: kinds}
	}
	return entry.value, nil
}

func (t *Table[T]) Revoke(
	ctx context.Context,
	h Handle,
) (T, bool) {
	var (
		value T
		ok    bool
	)
	t.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		var entry tableEntry[T]
		entry, ok = t.entries[h.id]
		if !ok || entry.handle != h {
			ok = false
			return
		}
		delete(t.entries, h.id)
		value = entry.value
	})
	return value, ok
}

// RevokeKind revokes every handle of the given kind and returns how many.
func (t *Table[T]) RevokeKind(
	ctx context.Context,
	kind Kind,
) int {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &t.locker, func() int {
		count := 0
		for id, entry := range t.entries {
			if entry.handle.kind != kind {
				continue
			}
			delete(t.entries, id)
			count++
		}
		return count
	})
}

// Find returns the first live handle of the given kind whose value matches.
func (t *Table[T]) Find(
	ctx context.Context,
	kind Kind,
	match func(T) bool,
) (Handle, bool) {
	var (
		result Handle
		found  bool
	)
	t.locker.Do(xsync.WithNoLogging(ctx, true), func() {
		for _, entry := range t.entries {
			if entry.handle.kind == kind && match(entry.value) {
				result, found = entry.handle, true
				return
			}
		}
	})
	return result, found
}

func (t *Table[T]) Len(ctx context.Context) int {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &t.locker, func() int {
		return len(t.entries)
	})
}
