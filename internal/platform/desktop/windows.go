//go:build cgo

package desktop

import (
	"context"
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

// WindowManager implements platform.WindowManager with robotgo.
type WindowManager struct {
	run scriptRunner
}

// NewWindowManager creates a window manager.
func NewWindowManager() *WindowManager {
	return &WindowManager{run: runOSAScript}
}

// Bounds returns the frame of the process's primary window. robotgo reports
// a zero frame for minimized or off-screen windows; that is passed through.
func (wm *WindowManager) Bounds(ctx context.Context, pid int) (model.WindowFrame, error) {
	if err := ctx.Err(); err != nil {
		return model.WindowFrame{}, err
	}
	x, y, w, h := robotgo.GetBounds(pid)
	return model.WindowFrame{X: x, Y: y, Width: w, Height: h}, nil
}

// Activate brings the process to the foreground.
func (wm *WindowManager) Activate(ctx context.Context, pid int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := robotgo.ActivePid(pid); err != nil {
		return fmt.Errorf("%w: failed to activate pid %d: %v", platform.ErrWindowNotFound, pid, err)
	}
	return nil
}

// Reposition moves the primary window's origin to (x, y).
func (wm *WindowManager) Reposition(ctx context.Context, pid int, x, y int) error {
	return reposition(ctx, wm.run, pid, x, y)
}
