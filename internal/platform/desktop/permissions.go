//go:build cgo

package desktop

import (
	"context"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"
)

// requestPermissions triggers the screen-recording prompt with a one-pixel
// capture and, on macOS, the automation prompt with a trivial System Events
// query.
func requestPermissions() {
	_, _ = robotgo.CaptureImg(0, 0, 1, 1)
	if runtime.GOOS != "darwin" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = runOSAScript(ctx, "-e", `tell application "System Events" to count processes`)
}
