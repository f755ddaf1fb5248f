// Package actuate turns detected elements into pointer and keyboard actions.
// The window frame is always re-resolved before an action; screen positions
// stored with an element are never trusted.
package actuate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

// ErrIndexOutOfRange means an element index does not address the list.
var ErrIndexOutOfRange = errors.New("element index out of range")

// FrameResolver resolves the current window frame of an application.
type FrameResolver interface {
	Resolve(ctx context.Context, app string) (model.WindowFrame, error)
}

// Pick returns elements[index] or an ErrIndexOutOfRange error naming the
// valid range.
func Pick(elements []model.Element, index int) (model.Element, error) {
	if len(elements) == 0 {
		return model.Element{}, &IndexError{Index: index, Len: 0}
	}
	if index < 0 || index >= len(elements) {
		return model.Element{}, &IndexError{Index: index, Len: len(elements)}
	}
	return elements[index], nil
}

// IndexError describes an out-of-range element index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("element index %d out of range: no elements detected", e.Index)
	}
	return fmt.Sprintf("element index %d out of range: valid range 0–%d", e.Index, e.Len-1)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Result reports what an action did.
type Result struct {
	Action  string            `yaml:"action"            json:"action"`
	App     string            `yaml:"app"               json:"app"`
	Element *model.Element    `yaml:"element,omitempty" json:"element,omitempty"`
	X       int               `yaml:"x,omitempty"       json:"x,omitempty"`
	Y       int               `yaml:"y,omitempty"       json:"y,omitempty"`
	Frame   model.WindowFrame `yaml:"frame"             json:"frame"`
	Text    string            `yaml:"text,omitempty"    json:"text,omitempty"`
}

// ClickOptions tunes a click.
type ClickOptions struct {
	Button platform.MouseButton
	// Count is 1 for a single click, 2 for a double click.
	Count int
}

// Actuator performs actions against application windows.
type Actuator struct {
	resolver FrameResolver
	input    platform.Inputter
	logger   *zap.Logger
	// TypeDelayMs is the pause between typed characters.
	TypeDelayMs int
}

// New creates an actuator.
func New(resolver FrameResolver, input platform.Inputter, logger *zap.Logger) *Actuator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Actuator{resolver: resolver, input: input, logger: logger}
}

// locate re-resolves app's frame and maps el's click point onto it.
func (a *Actuator) locate(ctx context.Context, app string, el model.Element) (model.WindowFrame, int, int, error) {
	frame, err := a.resolver.Resolve(ctx, app)
	if err != nil {
		return model.WindowFrame{}, 0, 0, err
	}
	p, err := frame.ClickPoint(el)
	if err != nil {
		return model.WindowFrame{}, 0, 0, err
	}
	return frame, int(math.Round(p.X)), int(math.Round(p.Y)), nil
}

// Click clicks el inside app's window.
func (a *Actuator) Click(ctx context.Context, app string, el model.Element, opts ClickOptions) (Result, error) {
	if a.input == nil {
		return Result{}, fmt.Errorf("%w: input not available on this platform", platform.ErrActuationFailed)
	}
	frame, x, y, err := a.locate(ctx, app, el)
	if err != nil {
		return Result{}, err
	}
	count := max(opts.Count, 1)
	if err := a.input.Click(x, y, opts.Button, count); err != nil {
		return Result{}, fmt.Errorf("%w: click at (%d,%d): %w", platform.ErrActuationFailed, x, y, err)
	}
	a.logger.Info("clicked element",
		zap.String("app", app), zap.String("label", el.Label),
		zap.Int("x", x), zap.Int("y", y), zap.Stringer("button", opts.Button), zap.Int("count", count))

	action := "click"
	if count == 2 {
		action = "double_click"
	}
	return Result{Action: action, App: app, Element: &el, X: x, Y: y, Frame: frame}, nil
}

// Type types text into app. When target is non-nil it is clicked first to
// focus it.
func (a *Actuator) Type(ctx context.Context, app, text string, target *model.Element) (Result, error) {
	if a.input == nil {
		return Result{}, fmt.Errorf("%w: input not available on this platform", platform.ErrActuationFailed)
	}
	res := Result{Action: "type", App: app, Text: text}
	if target != nil {
		clicked, err := a.Click(ctx, app, *target, ClickOptions{Count: 1})
		if err != nil {
			return Result{}, err
		}
		res.Element, res.X, res.Y, res.Frame = clicked.Element, clicked.X, clicked.Y, clicked.Frame
	} else {
		frame, err := a.resolver.Resolve(ctx, app)
		if err != nil {
			return Result{}, err
		}
		res.Frame = frame
	}
	if err := a.input.TypeText(text, a.TypeDelayMs); err != nil {
		return Result{}, fmt.Errorf("%w: type text: %w", platform.ErrActuationFailed, err)
	}
	a.logger.Info("typed text", zap.String("app", app), zap.Int("chars", len([]rune(text))))
	return res, nil
}

// Press presses a key combination such as "cmd+a" or "enter" in app's
// window.
func (a *Actuator) Press(ctx context.Context, app, combo string) (Result, error) {
	if a.input == nil {
		return Result{}, fmt.Errorf("%w: input not available on this platform", platform.ErrActuationFailed)
	}
	var keys []string
	for _, k := range strings.Split(combo, "+") {
		if k = strings.TrimSpace(k); k == "" {
			return Result{}, fmt.Errorf("%w: malformed key combo %q", platform.ErrActuationFailed, combo)
		}
		keys = append(keys, k)
	}
	frame, err := a.resolver.Resolve(ctx, app)
	if err != nil {
		return Result{}, err
	}
	if err := a.input.KeyCombo(keys); err != nil {
		if errors.Is(err, platform.ErrActuationFailed) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: key combo %s: %w", platform.ErrActuationFailed, combo, err)
	}
	a.logger.Info("pressed keys", zap.String("app", app), zap.String("keys", combo))
	return Result{Action: "key", App: app, Frame: frame, Text: combo}, nil
}
