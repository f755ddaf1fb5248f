//go:build !darwin && cgo

package desktop

import (
	"context"

	"github.com/go-vgo/robotgo"
)

// reposition has no portable move primitive off macOS; maximizing the window
// places it at the display origin, which is what the caller needs.
func reposition(ctx context.Context, _ scriptRunner, pid int, _, _ int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	robotgo.MaxWindow(pid)
	return nil
}
