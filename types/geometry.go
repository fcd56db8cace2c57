package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Dim struct {
	Width  uint32
	Height uint32
}

func (d Dim) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

func (d Dim) IsZero() bool {
	return d.Width == 0 || d.Height == 0
}

func DimFromString(s string) (Dim, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Dim{}, fmt.Errorf("expected WIDTHxHEIGHT, got '%s'", s)
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return Dim{}, fmt.Errorf("unable to parse width '%s': %w", w, err)
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return Dim{}, fmt.Errorf("unable to parse height '%s': %w", h, err)
	}
	return Dim{Width: uint32(width), Height: uint32(height)}, nil
}

func (d *Dim) Set(s string) error {
	v, err := DimFromString(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d *Dim) Type() string {
	return "dim"
}

// Rect is a crop rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

func (r Rect) IsZero() bool {
	return r == Rect{}
}

func (r Rect) Width() int32 {
	return r.Right - r.Left
}

func (r Rect) Height() int32 {
	return r.Bottom - r.Top
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.Left, r.Top, r.Right, r.Bottom)
}

// RectFromString parses "left,top,right,bottom".
func RectFromString(s string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("expected left,top,right,bottom, got '%s'", s)
	}
	var v [4]int32
	for idx, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return Rect{}, fmt.Errorf("unable to parse '%s': %w", part, err)
		}
		v[idx] = int32(n)
	}
	r := Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
	if r.Width() <= 0 || r.Height() <= 0 {
		return Rect{}, fmt.Errorf("empty crop rectangle %s", r)
	}
	return r, nil
}

func (r *Rect) Set(s string) error {
	v, err := RectFromString(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r *Rect) Type() string {
	return "rect"
}
