package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/ocr"
)

const ocrGuessConfidence = 0.7

// OCREngine pairs a recognizer with the result confidence its output earns.
type OCREngine struct {
	Engine     ocr.Engine
	Confidence float64
}

// commonButtonLabels are words that, when recognized on their own, are
// almost always push buttons.
var commonButtonLabels = map[string]bool{
	"ok": true, "cancel": true, "save": true, "open": true, "close": true,
	"submit": true, "send": true, "search": true, "next": true, "back": true,
	"done": true, "apply": true, "delete": true, "edit": true, "new": true,
	"log in": true, "login": true, "sign in": true, "sign up": true, "sign out": true,
	"continue": true, "yes": true, "no": true, "settings": true, "help": true,
	"share": true, "add": true, "remove": true, "reply": true, "print": true,
	"copy": true, "paste": true, "undo": true, "redo": true, "quit": true,
	"start": true, "stop": true, "play": true, "pause": true, "refresh": true,
	"download": true, "upload": true, "accept": true, "decline": true,
	"confirm": true, "retry": true, "skip": true, "finish": true,
	"install": true, "update": true, "allow": true, "deny": true,
}

// ocrGuesses are common labels at the positions dialogs and toolbars
// usually put them, used when no recognizer produced text.
var ocrGuesses = []model.Element{
	{Kind: model.KindButton, Label: "OK", Normalized: model.Point{X: 0.88, Y: 0.93}},
	{Kind: model.KindButton, Label: "Cancel", Normalized: model.Point{X: 0.74, Y: 0.93}},
	{Kind: model.KindButton, Label: "Close", Normalized: model.Point{X: 0.02, Y: 0.02}},
	{Kind: model.KindTextInput, Label: "Search", Normalized: model.Point{X: 0.5, Y: 0.06}},
}

// OCR recognizes text in the window capture with the first engine that
// works, falling back to common-label guesses.
type OCR struct {
	engines []OCREngine
	logger  *zap.Logger
}

// NewOCR creates the OCR detector. Engines are tried in order.
func NewOCR(engines []OCREngine, logger *zap.Logger) *OCR {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCR{engines: engines, logger: logger}
}

func (d *OCR) Strategy() model.Strategy { return model.StrategyOCR }
func (d *OCR) NeedsScreenshot() bool    { return true }

func (d *OCR) Detect(ctx context.Context, req Request) (model.DetectionResult, error) {
	if req.Screenshot == nil {
		return model.DetectionResult{}, failed(d.Strategy(), fmt.Errorf("no screenshot"))
	}
	prepared := ocr.Preprocess(req.Screenshot)

	for _, e := range d.engines {
		words, err := e.Engine.Recognize(ctx, prepared.Image)
		switch {
		case errors.Is(err, ocr.ErrUnavailable):
			d.logger.Debug("ocr engine unavailable", zap.String("engine", e.Engine.Name()), zap.Error(err))
			continue
		case err != nil:
			if ctx.Err() != nil {
				return model.DetectionResult{}, failed(d.Strategy(), ctx.Err())
			}
			d.logger.Warn("ocr engine failed", zap.String("engine", e.Engine.Name()), zap.Error(err))
			continue
		case len(words) == 0:
			d.logger.Debug("ocr engine found no text", zap.String("engine", e.Engine.Name()))
			continue
		}

		for i := range words {
			words[i].Box = prepared.Unscale(words[i].Box)
		}
		elements := make([]model.Element, 0, len(words))
		for _, w := range groupWords(words) {
			kind := model.KindStaticText
			if commonButtonLabels[strings.ToLower(w.Text)] {
				kind = model.KindButton
			}
			el := elementFromImageRect(kind, w.Text, w.Box, req.Screenshot, req.Frame, w.Confidence)
			elements = append(elements, el)
		}
		summary := fmt.Sprintf("Recognized %d text elements in %s with %s", len(elements), req.App, e.Engine.Name())
		return model.NewDetectionResult(d.Strategy(), elements, summary, suggestActions(elements, 5), e.Confidence), nil
	}

	elements := make([]model.Element, len(ocrGuesses))
	for i, el := range ocrGuesses {
		el.Enabled = true
		el.Clickable = model.IsClickable(el.Kind, true)
		el.Confidence = ocrGuessConfidence
		elements[i] = el
	}
	return model.NewDetectionResult(d.Strategy(), elements,
		"No OCR engine produced text; showing common label positions",
		suggestActions(elements, 5), ocrGuessConfidence), nil
}

// groupWords merges words on the same line whose horizontal gap is under
// the line height into phrases, so "Sign" "in" becomes "Sign in".
func groupWords(words []ocr.Word) []ocr.Word {
	sorted := make([]ocr.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Box, sorted[j].Box
		if !sameLine(a, b) {
			return a.Min.Y < b.Min.Y
		}
		return a.Min.X < b.Min.X
	})

	var out []ocr.Word
	for _, w := range sorted {
		if n := len(out); n > 0 {
			last := &out[n-1]
			gap := w.Box.Min.X - last.Box.Max.X
			if sameLine(last.Box, w.Box) && gap >= 0 && gap <= last.Box.Dy() {
				last.Text += " " + w.Text
				last.Box = last.Box.Union(w.Box)
				last.Confidence = min(last.Confidence, w.Confidence)
				continue
			}
		}
		out = append(out, w)
	}
	return out
}

// sameLine reports whether two boxes overlap vertically by at least half
// the smaller height.
func sameLine(a, b image.Rectangle) bool {
	overlap := min(a.Max.Y, b.Max.Y) - max(a.Min.Y, b.Min.Y)
	return overlap*2 >= min(a.Dy(), b.Dy()) && overlap > 0
}
