package detect

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/ocr"
)

type fakeEngine struct {
	name  string
	words []ocr.Word
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Recognize(ctx context.Context, img image.Image) ([]ocr.Word, error) {
	f.calls++
	return f.words, f.err
}

func ocrRequest() Request {
	return Request{App: "Notes", Frame: model.WindowFrame{X: 0, Y: 0, Width: 1600, Height: 1000}, Screenshot: image.NewRGBA(image.Rect(0, 0, 1600, 1000))}
}

func TestOCR_UsesFirstWorkingEngine(t *testing.T) {
	paddle := &fakeEngine{name: "paddle", err: ocr.ErrUnavailable}
	tess := &fakeEngine{name: "tesseract", words: []ocr.Word{
		{Text: "Save", Box: image.Rect(100, 100, 160, 120), Confidence: 0.9},
		{Text: "Welcome", Box: image.Rect(400, 500, 520, 520), Confidence: 0.8},
	}}
	d := NewOCR([]OCREngine{{paddle, 0.9}, {tess, 0.8}}, nil)
	res, err := d.Detect(context.Background(), ocrRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res.Confidence != 0.8 {
		t.Errorf("result confidence = %v, want 0.8 for the second engine", res.Confidence)
	}
	if len(res.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(res.Elements))
	}
	if res.Elements[0].Kind != model.KindButton || !res.Elements[0].Clickable {
		t.Errorf("common label should be a button: %+v", res.Elements[0])
	}
	if res.Elements[1].Kind != model.KindStaticText {
		t.Errorf("other text should be static text: %+v", res.Elements[1])
	}
	if got := res.Elements[0].Normalized; got != (model.Point{X: 130.0 / 1600, Y: 110.0 / 1000}) {
		t.Errorf("normalized = %v", got)
	}
}

func TestOCR_CaptureWithOffsetOrigin(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 2400, 1200))
	shot := full.SubImage(image.Rect(1200, 0, 2400, 1200))
	engine := &fakeEngine{name: "tesseract", words: []ocr.Word{
		{Text: "Welcome", Box: image.Rect(590, 590, 610, 610), Confidence: 0.9},
	}}
	d := NewOCR([]OCREngine{{engine, 0.8}}, nil)
	res, err := d.Detect(context.Background(), Request{
		App:        "Notes",
		Frame:      model.WindowFrame{Width: 1200, Height: 1200},
		Screenshot: shot,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(res.Elements))
	}
	el := res.Elements[0]
	if el.Normalized != (model.Point{X: 0.5, Y: 0.5}) {
		t.Errorf("normalized = %v, want {0.5 0.5}", el.Normalized)
	}
	if el.Bounds == nil || *el.Bounds != (model.Rect{X: 590, Y: 590, Width: 20, Height: 20}) {
		t.Errorf("bounds = %v", el.Bounds)
	}
}

func TestOCR_GuessesWhenNoEngineWorks(t *testing.T) {
	d := NewOCR([]OCREngine{
		{&fakeEngine{name: "paddle", err: ocr.ErrUnavailable}, 0.9},
		{&fakeEngine{name: "tesseract", err: errors.New("crashed")}, 0.8},
	}, nil)
	res, err := d.Detect(context.Background(), ocrRequest())
	if err != nil {
		t.Fatal(err)
	}
	if res.Confidence != 0.7 || res.Empty() {
		t.Errorf("expected guessed labels at 0.7, got %v with %d elements", res.Confidence, len(res.Elements))
	}
}

func TestOCR_NoScreenshotFails(t *testing.T) {
	d := NewOCR(nil, nil)
	if _, err := d.Detect(context.Background(), Request{App: "x", Frame: testFrame}); !errors.Is(err, ErrDetectorFailed) {
		t.Fatalf("expected ErrDetectorFailed, got %v", err)
	}
}

func TestGroupWords(t *testing.T) {
	words := []ocr.Word{
		{Text: "in", Box: image.Rect(50, 10, 65, 30), Confidence: 0.7},
		{Text: "Sign", Box: image.Rect(10, 12, 45, 30), Confidence: 0.9},
		{Text: "Help", Box: image.Rect(300, 10, 340, 30), Confidence: 0.8},
		{Text: "Footer", Box: image.Rect(10, 200, 80, 220), Confidence: 0.8},
	}
	got := groupWords(words)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %+v", got)
	}
	if got[0].Text != "Sign in" || got[0].Box != image.Rect(10, 10, 65, 30) || got[0].Confidence != 0.7 {
		t.Errorf("group 0 = %+v", got[0])
	}
	if got[1].Text != "Help" || got[2].Text != "Footer" {
		t.Errorf("groups = %+v", got)
	}
}
