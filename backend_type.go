package rocvideodecode

import (
	"fmt"
	"strings"
)

type BackendType int

const (
	UndefinedBackendType = BackendType(iota)
	BackendTypeLibav
	BackendTypeSynthetic
	EndOfBackendType
)

func (t BackendType) String() string {
	switch t {
	case UndefinedBackendType:
		return "undefined"
	case BackendTypeLibav:
		return "libav"
	case BackendTypeSynthetic:
		return "synthetic"
	}
	return fmt.Sprintf("unknown_%d", int(t))
}

func BackendTypeFromString(s string) (BackendType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := BackendTypeLibav; t < EndOfBackendType; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return UndefinedBackendType, fmt.Errorf("unknown backend '%s'", s)
}

func (t *BackendType) Set(s string) error {
	v, err := BackendTypeFromString(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *BackendType) Type() string {
	return "backend"
}
