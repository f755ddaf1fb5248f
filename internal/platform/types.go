package platform

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-locate/internal/model"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// AXNode is one node of a flattened accessibility tree.
type AXNode struct {
	Role        string `json:"role"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Enabled     bool   `json:"enabled"`
	Depth       int    `json:"depth"`
}

// Label returns the best human-readable label for the node:
// title > description > value.
func (n AXNode) Label() string {
	for _, s := range []string{n.Title, n.Description, n.Value} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Rect returns the node's screen-absolute rectangle.
func (n AXNode) Rect() model.Rect {
	return model.Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}
