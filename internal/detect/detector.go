// Package detect finds UI elements in an application window. Four
// strategies implement Detector; Pipeline runs them as a priority waterfall.
package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/mj1618/desktop-locate/internal/model"
)

var (
	// ErrDetectorFailed wraps every failure of a single detector.
	ErrDetectorFailed = errors.New("detector failed")
	// ErrParseFailed means a detector could not interpret its backend's
	// output. It matches ErrDetectorFailed under errors.Is.
	ErrParseFailed = fmt.Errorf("%w: unparseable output", ErrDetectorFailed)
	// ErrNoElements means a forced detector ran but found nothing.
	ErrNoElements = errors.New("no elements detected")
)

// Request is the input shared by all detectors.
type Request struct {
	App   string
	Frame model.WindowFrame
	// Screenshot is the capture of Frame. It is nil for detectors that do
	// not need one, and may be larger than Frame on high-DPI displays.
	Screenshot image.Image
}

// Detector is one element-finding strategy.
type Detector interface {
	Strategy() model.Strategy
	NeedsScreenshot() bool
	Detect(ctx context.Context, req Request) (model.DetectionResult, error)
}

func failed(s model.Strategy, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDetectorFailed, s, err)
}

// suggestActions proposes up to limit actions for the clickable elements.
func suggestActions(elements []model.Element, limit int) []string {
	var out []string
	for i, el := range elements {
		if len(out) >= limit {
			break
		}
		if !el.Clickable {
			continue
		}
		label := strings.TrimSpace(el.Label)
		if label == "" {
			label = "unlabeled"
		}
		verb := "Click"
		if el.Kind == model.KindTextInput {
			verb = "Type into"
		}
		out = append(out, fmt.Sprintf("%s %s %q (element %d)", verb, strings.ReplaceAll(string(el.Kind), "_", " "), label, i))
	}
	return out
}

// imageToWindow returns factors that convert capture pixels to window
// points. Captures on high-DPI displays are larger than the frame.
func imageToWindow(img image.Image, frame model.WindowFrame) (float64, float64) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 || !frame.Resolved() {
		return 1, 1
	}
	return float64(frame.Width) / float64(b.Dx()), float64(frame.Height) / float64(b.Dy())
}

// elementFromImageRect builds an element from a rectangle in capture pixels.
// r is relative to the capture's top-left corner whatever img.Bounds().Min
// is: OCR engines and the vision model only ever see the rebased pixels.
func elementFromImageRect(kind model.Kind, label string, r image.Rectangle, img image.Image, frame model.WindowFrame, conf float64) model.Element {
	b := img.Bounds()
	sx, sy := imageToWindow(img, frame)
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	norm := model.ClampPoint(model.Point{X: cx / float64(max(b.Dx(), 1)), Y: cy / float64(max(b.Dy(), 1))})
	bounds := &model.Rect{
		X:      int(float64(r.Min.X) * sx),
		Y:      int(float64(r.Min.Y) * sy),
		Width:  int(float64(r.Dx()) * sx),
		Height: int(float64(r.Dy()) * sy),
	}
	return model.Element{
		Kind:       kind,
		Label:      label,
		Bounds:     bounds,
		Normalized: norm,
		Clickable:  model.IsClickable(kind, true),
		Enabled:    true,
		Confidence: model.Clamp01(conf),
	}
}
