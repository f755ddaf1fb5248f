package detect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/mj1618/desktop-locate/internal/model"
)

type visionResponse struct {
	Elements         []visionElement `json:"elements"`
	Summary          string          `json:"summary"`
	SuggestedActions []string        `json:"suggestedActions"`
	SuggestedSnake   []string        `json:"suggested_actions"`
}

type visionElement struct {
	Kind       string          `json:"kind"`
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Text       string          `json:"text"`
	X          *float64        `json:"x"`
	Y          *float64        `json:"y"`
	Bounds     json.RawMessage `json:"bounds"`
	Enabled    *bool           `json:"enabled"`
	Confidence *float64        `json:"confidence"`
}

type parsedVision struct {
	Elements []model.Element
	Summary  string
	Actions  []string
}

// parseVisionResponse interprets a model reply leniently: code fences and
// surrounding prose are ignored and the first JSON object is used. Missing
// kinds become unknown, missing confidence 0.5, missing positions zero.
func parseVisionResponse(text string, img image.Image, frame model.WindowFrame) (parsedVision, error) {
	raw := extractJSONObject(stripFences(text))
	if raw == "" {
		return parsedVision{}, fmt.Errorf("%w: no JSON object in vision reply", ErrParseFailed)
	}
	var resp visionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return parsedVision{}, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	b := img.Bounds()
	imgW, imgH := float64(max(b.Dx(), 1)), float64(max(b.Dy(), 1))
	sx, sy := imageToWindow(img, frame)

	elements := make([]model.Element, 0, len(resp.Elements))
	for _, ve := range resp.Elements {
		kindText := ve.Kind
		if kindText == "" {
			kindText = ve.Type
		}
		kind := model.ParseKind(kindText)
		label := strings.TrimSpace(ve.Label)
		if label == "" {
			label = strings.TrimSpace(ve.Text)
		}
		conf := 0.5
		if ve.Confidence != nil {
			conf = model.Clamp01(*ve.Confidence)
		}
		enabled := true
		if ve.Enabled != nil {
			enabled = *ve.Enabled
		}

		el := model.Element{
			Kind:       kind,
			Label:      label,
			Clickable:  model.IsClickable(kind, enabled),
			Enabled:    enabled,
			Confidence: conf,
		}
		px, havePixelBounds := parseBounds(ve.Bounds)
		if havePixelBounds {
			el.Bounds = &model.Rect{
				X:      int(float64(px.Min.X) * sx),
				Y:      int(float64(px.Min.Y) * sy),
				Width:  int(float64(px.Dx()) * sx),
				Height: int(float64(px.Dy()) * sy),
			}
		}
		switch {
		case ve.X != nil && ve.Y != nil:
			el.Normalized = model.Point{X: axisPosition(*ve.X, imgW), Y: axisPosition(*ve.Y, imgH)}
		case havePixelBounds:
			el.Normalized = model.Point{
				X: float64(px.Min.X+px.Max.X) / 2 / imgW,
				Y: float64(px.Min.Y+px.Max.Y) / 2 / imgH,
			}
		}
		el.Normalized = model.ClampPoint(el.Normalized)
		elements = append(elements, el)
	}

	actions := resp.SuggestedActions
	if len(actions) == 0 {
		actions = resp.SuggestedSnake
	}
	return parsedVision{Elements: elements, Summary: strings.TrimSpace(resp.Summary), Actions: actions}, nil
}

// axisPosition reads one coordinate of a reply. Values in [0,1] are already
// normalized; anything else is a pixel offset into a capture of size dim.
// Each axis is decided on its own since models mix the two.
func axisPosition(v, dim float64) float64 {
	if v >= 0 && v <= 1 {
		return v
	}
	return v / dim
}

// parseBounds accepts {"x","y","width","height"} or [x, y, width, height].
func parseBounds(raw json.RawMessage) (image.Rectangle, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return image.Rectangle{}, false
	}
	var obj struct {
		X, Y, Width, Height float64
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		r := image.Rect(int(obj.X), int(obj.Y), int(obj.X+obj.Width), int(obj.Y+obj.Height))
		return r, !r.Empty()
	}
	var arr []float64
	if err := json.Unmarshal(raw, &arr); err == nil && len(arr) == 4 {
		r := image.Rect(int(arr[0]), int(arr[1]), int(arr[0]+arr[2]), int(arr[1]+arr[3]))
		return r, !r.Empty()
	}
	return image.Rectangle{}, false
}

// stripFences removes a surrounding ``` or ```json fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} in s, honouring JSON
// string escapes, or "" if there is none.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
