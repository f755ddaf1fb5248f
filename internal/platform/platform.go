package platform

import (
	"context"
	"image"

	"github.com/mj1618/desktop-locate/internal/model"
)

// ProcessFinder resolves an application name to a running process.
type ProcessFinder interface {
	// FindApp returns the PID of the best-matching running process for the
	// given application name, or ErrWindowNotFound.
	FindApp(ctx context.Context, app string) (int, error)
}

// WindowManager queries and manipulates the primary window of a process.
type WindowManager interface {
	// Bounds returns the current screen frame of the process's primary window.
	// A zero frame is a valid answer: the OS bridge reports it for minimized,
	// off-screen or not-yet-laid-out windows.
	Bounds(ctx context.Context, pid int) (model.WindowFrame, error)
	// Activate brings the application to the foreground.
	Activate(ctx context.Context, pid int) error
	// Reposition moves the primary window so its origin is at (x, y).
	Reposition(ctx context.Context, pid int, x, y int) error
}

// AccessibilityReader reads the UI element tree from the OS accessibility layer.
type AccessibilityReader interface {
	// ReadNodes returns the flattened element tree of the process's front
	// window. Node bounds are screen-absolute.
	ReadNodes(ctx context.Context, pid int) ([]AXNode, error)
}

// Screenshotter captures screen regions.
type Screenshotter interface {
	// CaptureRegion captures the given screen rectangle. The returned image may
	// be larger than the rectangle on high-DPI displays.
	CaptureRegion(ctx context.Context, frame model.WindowFrame) (image.Image, error)
}

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}
