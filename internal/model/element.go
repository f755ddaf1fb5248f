package model

import (
	"fmt"
	"strings"
)

// Kind is the normalized category of a detected UI element.
type Kind string

const (
	KindButton     Kind = "button"
	KindStaticText Kind = "static_text"
	KindTextInput  Kind = "text_input"
	KindLink       Kind = "link"
	KindImage      Kind = "image"
	KindMenu       Kind = "menu"
	KindCheckbox   Kind = "checkbox"
	KindRadio      Kind = "radio"
	KindSlider     Kind = "slider"
	KindUnknown    Kind = "unknown"
)

// AllKinds lists every Kind in display order.
var AllKinds = []Kind{
	KindButton, KindStaticText, KindTextInput, KindLink, KindImage,
	KindMenu, KindCheckbox, KindRadio, KindSlider, KindUnknown,
}

// ParseKind converts free-form text (as returned by a vision model, for
// example "Button", "text-field" or "checkbox") to a Kind. Unrecognized
// values map to KindUnknown.
func ParseKind(s string) Kind {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "button", "btn", "push_button", "icon_button":
		return KindButton
	case "static_text", "text", "label", "txt", "heading", "title":
		return KindStaticText
	case "text_input", "input", "text_field", "textfield", "textbox", "text_area", "textarea", "search_field", "search", "combo_box":
		return KindTextInput
	case "link", "lnk", "hyperlink":
		return KindLink
	case "image", "img", "icon", "picture":
		return KindImage
	case "menu", "menu_item", "menuitem", "dropdown", "popup", "pop_up_button", "select":
		return KindMenu
	case "checkbox", "check_box", "chk", "toggle", "switch":
		return KindCheckbox
	case "radio", "radio_button", "radiobutton":
		return KindRadio
	case "slider", "range", "scrubber":
		return KindSlider
	}
	return KindUnknown
}

// Strategy identifies the detector that produced an element.
type Strategy string

const (
	StrategyAccessibility Strategy = "accessibility"
	StrategyVision        Strategy = "ai"
	StrategyOCR           Strategy = "ocr"
	StrategyHeuristic     Strategy = "heuristic"
)

// PriorityOrder is the waterfall order used in auto mode.
var PriorityOrder = []Strategy{
	StrategyAccessibility,
	StrategyVision,
	StrategyOCR,
	StrategyHeuristic,
}

// ParseStrategy converts a strategy name to a Strategy. "vision" is accepted
// as an alias of "ai".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accessibility", "a11y", "ax":
		return StrategyAccessibility, nil
	case "ai", "vision", "llm":
		return StrategyVision, nil
	case "ocr":
		return StrategyOCR, nil
	case "heuristic", "heuristics":
		return StrategyHeuristic, nil
	}
	return "", fmt.Errorf("unknown strategy: %q (expected accessibility, ai, ocr, or heuristic)", s)
}

// Point is a 2D coordinate. Depending on context it is either normalized
// ([0,1] relative to a window frame) or in screen pixels.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Rect is a pixel rectangle.
type Rect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{
		X: float64(r.X) + float64(r.Width)/2,
		Y: float64(r.Y) + float64(r.Height)/2,
	}
}

// Element is a detected, interactable (or readable) UI element.
//
// Normalized is authoritative. Screen is derived from Normalized and the
// WindowFrame that was current when it was stamped; it must be recomputed
// whenever the frame may have changed.
type Element struct {
	Kind       Kind     `yaml:"kind"             json:"kind"`
	Label      string   `yaml:"label,omitempty"  json:"label,omitempty"`
	Bounds     *Rect    `yaml:"bounds,omitempty" json:"bounds,omitempty"` // window-relative pixels, best effort
	Normalized Point    `yaml:"normalized"       json:"normalized"`
	Screen     Point    `yaml:"screen"           json:"screen"`
	Clickable  bool     `yaml:"clickable"        json:"clickable"`
	Enabled    bool     `yaml:"enabled"          json:"enabled"`
	Confidence float64  `yaml:"confidence"       json:"confidence"`
	Source     Strategy `yaml:"source"           json:"source"`
}

// ClickableKinds are the kinds that accept a pointer click when enabled.
var ClickableKinds = map[Kind]bool{
	KindButton:    true,
	KindTextInput: true,
	KindLink:      true,
	KindMenu:      true,
	KindCheckbox:  true,
	KindRadio:     true,
	KindSlider:    true,
}

// IsClickable applies the clickable rule: the kind must be in ClickableKinds
// and the element must be enabled.
func IsClickable(kind Kind, enabled bool) bool {
	return enabled && ClickableKinds[kind]
}

// Clamp01 restricts v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampPoint restricts both coordinates of p to [0,1].
func ClampPoint(p Point) Point {
	return Point{X: Clamp01(p.X), Y: Clamp01(p.Y)}
}
