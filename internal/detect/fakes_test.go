package detect

import (
	"context"
	"image"
	"image/color"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

type fakeResolver struct {
	frame      model.WindowFrame
	current    model.WindowFrame
	err        error
	currentErr error
	resolves   int
}

func (f *fakeResolver) Resolve(ctx context.Context, app string) (model.WindowFrame, error) {
	f.resolves++
	return f.frame, f.err
}

func (f *fakeResolver) Current(ctx context.Context, app string) (model.WindowFrame, error) {
	if f.currentErr != nil {
		return model.WindowFrame{}, f.currentErr
	}
	if f.current.Resolved() {
		return f.current, nil
	}
	return f.frame, nil
}

type fakeScreenshotter struct {
	img   image.Image
	err   error
	calls int
}

func (f *fakeScreenshotter) CaptureRegion(ctx context.Context, frame model.WindowFrame) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.img != nil {
		return f.img, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Set(0, 0, color.Black)
	return img, nil
}

// fakeDetector returns a canned result and error and records calls.
type fakeDetector struct {
	strategy   model.Strategy
	screenshot bool
	result     model.DetectionResult
	err        error
	calls      int
	lastReq    Request
}

func (f *fakeDetector) Strategy() model.Strategy { return f.strategy }
func (f *fakeDetector) NeedsScreenshot() bool    { return f.screenshot }

func (f *fakeDetector) Detect(ctx context.Context, req Request) (model.DetectionResult, error) {
	f.calls++
	f.lastReq = req
	return f.result, f.err
}

func resultOf(s model.Strategy, labels ...string) model.DetectionResult {
	var els []model.Element
	for i, l := range labels {
		els = append(els, model.Element{
			Kind:       model.KindButton,
			Label:      l,
			Normalized: model.Point{X: 0.1 * float64(i+1), Y: 0.5},
			Clickable:  true,
			Enabled:    true,
			Confidence: 0.9,
		})
	}
	return model.NewDetectionResult(s, els, string(s)+" summary", nil, 0.9)
}

type fakeProcesses struct {
	pid int
	err error
}

func (f *fakeProcesses) FindApp(ctx context.Context, app string) (int, error) { return f.pid, f.err }

type fakeAXReader struct {
	nodes []platform.AXNode
	err   error
}

func (f *fakeAXReader) ReadNodes(ctx context.Context, pid int) ([]platform.AXNode, error) {
	return f.nodes, f.err
}
