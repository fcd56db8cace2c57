// Package types provides the value types exchanged between the decoder
// adapter, its backends and its callers.
package types

import (
	"fmt"
	"strings"
)

func sanitizeEnumString(s string) string {
	return strings.Trim(strings.ToLower(s), " \"\n\r\t")
}

func parseEnum[T ~int](s string, end T, name string) (T, error) {
	s = sanitizeEnumString(s)
	for candidate := T(0); candidate < end; candidate++ {
		if sanitizeEnumString(fmt.Sprint(candidate)) == s {
			return candidate, nil
		}
	}
	return -1, fmt.Errorf("unknown %s: '%s'", name, s)
}
