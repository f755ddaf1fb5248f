//go:build cgo

package desktop

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

// Screenshotter implements platform.Screenshotter with robotgo.
type Screenshotter struct{}

// NewScreenshotter creates a screenshotter.
func NewScreenshotter() *Screenshotter {
	return &Screenshotter{}
}

// CaptureRegion captures the screen rectangle covered by frame.
func (s *Screenshotter) CaptureRegion(ctx context.Context, frame model.WindowFrame) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !frame.Resolved() {
		return nil, fmt.Errorf("cannot capture %s: %w", frame, model.ErrFrameUnresolved)
	}
	img, err := robotgo.CaptureImg(frame.X, frame.Y, frame.Width, frame.Height)
	if err != nil {
		if isCapturePermissionError(err) {
			return nil, fmt.Errorf("%w: screen recording access required\n\n"+
				"Grant permission at: System Settings > Privacy & Security > Screen Recording\n"+
				"Then restart the terminal and try again.", platform.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: screen capture returned an empty image", platform.ErrPermissionDenied)
	}
	return img, nil
}

func isCapturePermissionError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission") || strings.Contains(msg, "not authorized")
}
