package detect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/imaging"
	"github.com/mj1618/desktop-locate/internal/model"
)

const (
	visionConfidence         = 0.85
	visionFallbackConfidence = 0.3
)

// Completer sends one image with a prompt to a vision model.
type Completer interface {
	Complete(ctx context.Context, prompt, imageDataURL string) (string, error)
}

const visionPrompt = `You are looking at a screenshot of a single desktop application window.
List every interactable or readable UI element you can see.

Respond with ONLY a JSON object of this shape:
{
  "elements": [
    {
      "kind": "button | static_text | text_input | link | image | menu | checkbox | radio | slider | unknown",
      "label": "visible text or accessible name",
      "x": 0.0,
      "y": 0.0,
      "bounds": {"x": 0, "y": 0, "width": 0, "height": 0},
      "enabled": true,
      "confidence": 0.0
    }
  ],
  "summary": "one sentence describing the window",
  "suggestedActions": ["short imperative action", "..."]
}

"x" and "y" are the element centre as fractions of the image width and
height (0 = left/top, 1 = right/bottom). "bounds" is optional and in image
pixels. "confidence" is between 0 and 1.`

// visionFallback is returned, flagged, when the model cannot be used.
var visionFallback = []model.Element{
	{Kind: model.KindMenu, Label: "Menu", Normalized: model.Point{X: 0.05, Y: 0.03}},
	{Kind: model.KindTextInput, Label: "Search", Normalized: model.Point{X: 0.5, Y: 0.08}},
	{Kind: model.KindButton, Label: "OK", Normalized: model.Point{X: 0.9, Y: 0.92}},
}

// Vision asks a vision-capable LLM to locate elements in the window capture.
type Vision struct {
	client  Completer
	timeout time.Duration
	logger  *zap.Logger
}

// NewVision creates the vision detector. timeout bounds the model call; zero
// leaves it to the client.
func NewVision(client Completer, timeout time.Duration, logger *zap.Logger) *Vision {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vision{client: client, timeout: timeout, logger: logger}
}

func (d *Vision) Strategy() model.Strategy { return model.StrategyVision }
func (d *Vision) NeedsScreenshot() bool    { return true }

// Detect returns the model's elements with result confidence 0.85. When the
// screenshot, the request or the response is unusable it returns the
// fallback result together with an ErrDetectorFailed error.
func (d *Vision) Detect(ctx context.Context, req Request) (model.DetectionResult, error) {
	if req.Screenshot == nil {
		return d.fallback(fmt.Errorf("no screenshot"))
	}
	dataURL, err := imaging.DataURL(req.Screenshot)
	if err != nil {
		return d.fallback(err)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	start := time.Now()
	text, err := d.client.Complete(ctx, visionPrompt, dataURL)
	if err != nil {
		return d.fallback(err)
	}
	d.logger.Debug("vision model answered", zap.Duration("elapsed", time.Since(start)), zap.Int("len", len(text)))

	parsed, err := parseVisionResponse(text, req.Screenshot, req.Frame)
	if err != nil {
		return d.fallback(err)
	}
	summary := parsed.Summary
	if summary == "" {
		summary = fmt.Sprintf("Vision model found %d elements in %s", len(parsed.Elements), req.App)
	}
	actions := parsed.Actions
	if len(actions) == 0 {
		actions = suggestActions(parsed.Elements, 5)
	}
	return model.NewDetectionResult(d.Strategy(), parsed.Elements, summary, actions, visionConfidence), nil
}

func (d *Vision) fallback(cause error) (model.DetectionResult, error) {
	elements := make([]model.Element, len(visionFallback))
	for i, el := range visionFallback {
		el.Enabled = true
		el.Clickable = model.IsClickable(el.Kind, true)
		el.Confidence = visionFallbackConfidence
		elements[i] = el
	}
	r := model.NewDetectionResult(d.Strategy(), elements,
		"Vision model unavailable; showing generic element guesses", nil, visionFallbackConfidence)
	r.Fallback = true
	return r, failed(d.Strategy(), cause)
}
