package model

import (
	"errors"
	"fmt"
)

// ErrFrameUnresolved is returned by coordinate math on a frame with no area.
var ErrFrameUnresolved = errors.New("window frame is not resolved (zero width or height)")

// WindowFrame is the screen rectangle of an application's primary window.
// It is only usable for coordinate math when Resolved.
type WindowFrame struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Resolved reports whether the frame has strictly positive width and height.
func (f WindowFrame) Resolved() bool {
	return f.Width > 0 && f.Height > 0
}

func (f WindowFrame) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", f.X, f.Y, f.Width, f.Height)
}

// ToScreen maps a normalized window-relative point to screen pixels:
// origin + normalized × size.
func (f WindowFrame) ToScreen(p Point) (Point, error) {
	if !f.Resolved() {
		return Point{}, ErrFrameUnresolved
	}
	return Point{
		X: float64(f.X) + p.X*float64(f.Width),
		Y: float64(f.Y) + p.Y*float64(f.Height),
	}, nil
}

// ToNormalized is the inverse of ToScreen.
func (f WindowFrame) ToNormalized(s Point) (Point, error) {
	if !f.Resolved() {
		return Point{}, ErrFrameUnresolved
	}
	return Point{
		X: (s.X - float64(f.X)) / float64(f.Width),
		Y: (s.Y - float64(f.Y)) / float64(f.Height),
	}, nil
}

// NormalizeOrigin returns the normalized position of a screen-absolute
// rectangle's origin: (origin - frame origin) / frame size, clamped to the
// frame.
func (f WindowFrame) NormalizeOrigin(r Rect) (Point, error) {
	p, err := f.ToNormalized(Point{X: float64(r.X), Y: float64(r.Y)})
	if err != nil {
		return Point{}, err
	}
	return ClampPoint(p), nil
}

// Relative converts a screen-absolute rectangle into window-relative pixels.
func (f WindowFrame) Relative(r Rect) Rect {
	return Rect{X: r.X - f.X, Y: r.Y - f.Y, Width: r.Width, Height: r.Height}
}

// ClickPoint returns the screen point to act on for el: the center of its
// window-relative bounds when it has any, otherwise its normalized position
// mapped onto f. Normalized itself is not changed.
func (f WindowFrame) ClickPoint(el Element) (Point, error) {
	if !f.Resolved() {
		return Point{}, ErrFrameUnresolved
	}
	if el.Bounds != nil && !el.Bounds.Empty() {
		c := el.Bounds.Center()
		return Point{X: float64(f.X) + c.X, Y: float64(f.Y) + c.Y}, nil
	}
	return f.ToScreen(el.Normalized)
}

// StampScreen recomputes Screen for every element against f and returns the
// stamped copies. The input slice is not modified.
func StampScreen(elements []Element, f WindowFrame) ([]Element, error) {
	out := make([]Element, len(elements))
	for i, el := range elements {
		s, err := f.ToScreen(el.Normalized)
		if err != nil {
			return nil, err
		}
		el.Screen = s
		out[i] = el
	}
	return out, nil
}
