package server

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/actuate"
	"github.com/mj1618/desktop-locate/internal/detect"
	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/session"
	"github.com/mj1618/desktop-locate/internal/window"
)

var testFrame = model.WindowFrame{X: 100, Y: 50, Width: 800, Height: 600}

type fakeDetector struct {
	elements []model.Element
	err      error
	panics   bool
	calls    int
	modes    []detect.Mode
}

func (f *fakeDetector) Run(ctx context.Context, sess *session.Session, app string, mode detect.Mode) (model.PipelineOutcome, error) {
	f.calls++
	f.modes = append(f.modes, mode)
	if f.panics {
		panic("detector exploded")
	}
	if f.err != nil {
		return model.PipelineOutcome{}, f.err
	}
	els := make([]model.Element, len(f.elements))
	copy(els, f.elements)
	return model.PipelineOutcome{
		Mode:     string(mode),
		Chosen:   model.StrategyAccessibility,
		Elements: els,
		Frame:    testFrame,
		Summary:  fmt.Sprintf("Found %d elements", len(els)),
	}, nil
}

type fakeFocuser struct {
	activated []string
	err       error
}

func (f *fakeFocuser) Resolve(ctx context.Context, app string) (model.WindowFrame, error) {
	if f.err != nil {
		return model.WindowFrame{}, f.err
	}
	return testFrame, nil
}

func (f *fakeFocuser) Activate(ctx context.Context, app string) error {
	f.activated = append(f.activated, app)
	return f.err
}

type fakeActor struct {
	clicked []model.Element
	opts    []actuate.ClickOptions
	typed   []string
	targets []*model.Element
	pressed []string
	err     error
}

func (f *fakeActor) Click(ctx context.Context, app string, el model.Element, opts actuate.ClickOptions) (actuate.Result, error) {
	if f.err != nil {
		return actuate.Result{}, f.err
	}
	f.clicked = append(f.clicked, el)
	f.opts = append(f.opts, opts)
	p, err := testFrame.ToScreen(el.Normalized)
	if err != nil {
		return actuate.Result{}, err
	}
	return actuate.Result{Action: "click", App: app, Element: &el, X: int(p.X), Y: int(p.Y), Frame: testFrame}, nil
}

func (f *fakeActor) Type(ctx context.Context, app, text string, target *model.Element) (actuate.Result, error) {
	if f.err != nil {
		return actuate.Result{}, f.err
	}
	f.typed = append(f.typed, text)
	f.targets = append(f.targets, target)
	return actuate.Result{Action: "type", App: app, Element: target, Frame: testFrame, Text: text}, nil
}

func (f *fakeActor) Press(ctx context.Context, app, combo string) (actuate.Result, error) {
	if f.err != nil {
		return actuate.Result{}, f.err
	}
	f.pressed = append(f.pressed, combo)
	return actuate.Result{Action: "key", App: app, Frame: testFrame, Text: combo}, nil
}

type fakeShot struct{}

func (fakeShot) CaptureRegion(ctx context.Context, frame model.WindowFrame) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height)), nil
}

func threeElements() []model.Element {
	return []model.Element{
		{Kind: model.KindButton, Label: "Save", Normalized: model.Point{X: 0.25, Y: 0.25}, Clickable: true, Enabled: true, Confidence: 0.95},
		{Kind: model.KindTextInput, Label: "Search", Normalized: model.Point{X: 0.5, Y: 0.5}, Clickable: true, Enabled: true, Confidence: 0.95},
		{Kind: model.KindButton, Label: "Close", Normalized: model.Point{X: 0.75, Y: 0.75}, Clickable: true, Enabled: true, Confidence: 0.95},
	}
}

type harness struct {
	det   *fakeDetector
	foc   *fakeFocuser
	actor *fakeActor
	svc   *Service
	srv   *Server
}

func newHarness() *harness {
	h := &harness{
		det:   &fakeDetector{elements: threeElements()},
		foc:   &fakeFocuser{},
		actor: &fakeActor{},
	}
	h.svc = NewService(Deps{
		Detector:      h.det,
		Focuser:       h.foc,
		Actor:         h.actor,
		Screenshotter: fakeShot{},
		Session:       session.New(0),
		Logger:        zap.NewNop(),
	})
	h.srv = New(h.svc, Config{}, zap.NewNop())
	return h
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil {
		t.Fatal("nil result")
	}
	var parts []string
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestHandleDetect_ReturnsReportAndStoresSnapshot(t *testing.T) {
	h := newHarness()
	res, err := h.srv.handleDetect(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	text := resultText(t, res)
	for _, want := range []string{"Detected 3 elements", "detection_id", `"Save"`, "valid range 0–2"} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
	if h.svc.Session().Len() != 1 {
		t.Errorf("snapshots = %d, want 1", h.svc.Session().Len())
	}
	if h.det.modes[0] != detect.ModeAuto {
		t.Errorf("mode = %q, want auto", h.det.modes[0])
	}
}

func TestHandleDetect_ForceMethod(t *testing.T) {
	h := newHarness()
	res, _ := h.srv.handleDetect(context.Background(), request(map[string]interface{}{"app_name": "Notes", "force_method": "ocr"}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if h.det.modes[0] != detect.Mode("ocr") {
		t.Errorf("mode = %q, want ocr", h.det.modes[0])
	}

	res, _ = h.srv.handleDetect(context.Background(), request(map[string]interface{}{"app_name": "Notes", "force_method": "telepathy"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "kind: invalid_argument") {
		t.Errorf("unknown method should be invalid_argument, got %s", resultText(t, res))
	}
}

func TestHandleDetect_MissingApp(t *testing.T) {
	h := newHarness()
	res, err := h.srv.handleDetect(context.Background(), request(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, res)
	if !res.IsError || !strings.Contains(text, "kind: invalid_argument") || !strings.Contains(text, "ok: false") {
		t.Errorf("got %s", text)
	}
	if h.det.calls != 0 {
		t.Errorf("detector called %d times", h.det.calls)
	}
}

func TestHandleClick_UsesStoredSnapshot(t *testing.T) {
	h := newHarness()
	report, err := h.svc.Detect(context.Background(), "Notes", "")
	if err != nil {
		t.Fatal(err)
	}

	res, err := h.srv.handleClick(context.Background(), request(map[string]interface{}{
		"app_name":      "Notes",
		"element_index": float64(1),
		"detection_id":  report.DetectionID,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if h.det.calls != 1 {
		t.Errorf("detector calls = %d, want 1 (snapshot reused)", h.det.calls)
	}
	if len(h.actor.clicked) != 1 || h.actor.clicked[0].Label != "Search" {
		t.Fatalf("clicked = %+v, want Search", h.actor.clicked)
	}
	text := resultText(t, res)
	for _, want := range []string{"ok: true", "action: click", "x: 500", "y: 350", "element_index: 1"} {
		if !strings.Contains(text, want) {
			t.Errorf("click result missing %q:\n%s", want, text)
		}
	}
}

func TestHandleClick_UnknownDetectionIDDetectsAgain(t *testing.T) {
	h := newHarness()
	res, _ := h.srv.handleClick(context.Background(), request(map[string]interface{}{
		"app_name":      "Notes",
		"element_index": 0,
		"detection_id":  "01JABCDEFGHJKMNPQRSTVWXYZ0",
		"button":        "right",
		"double":        true,
	}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if h.det.calls != 1 {
		t.Errorf("detector calls = %d, want 1", h.det.calls)
	}
	if got := h.actor.opts[0]; got.Button != platform.MouseRight || got.Count != 2 {
		t.Errorf("click options = %+v", got)
	}
}

func TestHandleClick_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		actorErr error
		wantKind string
		wantText string
	}{
		{"index out of range", map[string]interface{}{"app_name": "Notes", "element_index": 5}, nil, KindIndexOutOfRange, "valid range 0–2"},
		{"negative index", map[string]interface{}{"app_name": "Notes", "element_index": -1}, nil, KindIndexOutOfRange, "valid range 0–2"},
		{"missing index", map[string]interface{}{"app_name": "Notes"}, nil, KindInvalidArgument, "element_index is required"},
		{"fractional index", map[string]interface{}{"app_name": "Notes", "element_index": 1.5}, nil, KindInvalidArgument, "must be an integer"},
		{"bad button", map[string]interface{}{"app_name": "Notes", "element_index": 0, "button": "thumb"}, nil, KindInvalidArgument, "unknown mouse button"},
		{"actuation", map[string]interface{}{"app_name": "Notes", "element_index": 0}, fmt.Errorf("click: %w", platform.ErrActuationFailed), KindActuationFailed, "actuation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.actor.err = tt.actorErr
			res, err := h.srv.handleClick(context.Background(), request(tt.args))
			if err != nil {
				t.Fatalf("handler returned protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("expected error result, got %s", resultText(t, res))
			}
			text := resultText(t, res)
			if !strings.Contains(text, "kind: "+tt.wantKind) {
				t.Errorf("kind: want %s in\n%s", tt.wantKind, text)
			}
			if !strings.Contains(text, tt.wantText) {
				t.Errorf("want %q in\n%s", tt.wantText, text)
			}
			if !strings.Contains(text, "action: click_element") {
				t.Errorf("payload should name the action:\n%s", text)
			}
		})
	}
}

func TestHandleType(t *testing.T) {
	t.Run("without element skips detection", func(t *testing.T) {
		h := newHarness()
		res, _ := h.srv.handleType(context.Background(), request(map[string]interface{}{"app_name": "Notes", "text": "hello"}))
		if res.IsError {
			t.Fatalf("unexpected error: %s", resultText(t, res))
		}
		if h.det.calls != 0 {
			t.Errorf("detector calls = %d, want 0", h.det.calls)
		}
		if h.actor.typed[0] != "hello" || h.actor.targets[0] != nil {
			t.Errorf("typed %q target %v", h.actor.typed, h.actor.targets)
		}
	})
	t.Run("with element focuses it first", func(t *testing.T) {
		h := newHarness()
		res, _ := h.srv.handleType(context.Background(), request(map[string]interface{}{"app_name": "Notes", "text": "query", "element_index": float64(1)}))
		if res.IsError {
			t.Fatalf("unexpected error: %s", resultText(t, res))
		}
		if h.actor.targets[0] == nil || h.actor.targets[0].Label != "Search" {
			t.Errorf("target = %+v, want Search", h.actor.targets[0])
		}
	})
	t.Run("text then key", func(t *testing.T) {
		h := newHarness()
		res, _ := h.srv.handleType(context.Background(), request(map[string]interface{}{"app_name": "Notes", "text": "q", "key": "enter"}))
		if res.IsError {
			t.Fatalf("unexpected error: %s", resultText(t, res))
		}
		if len(h.actor.typed) != 1 || len(h.actor.pressed) != 1 || h.actor.pressed[0] != "enter" {
			t.Errorf("typed %v pressed %v", h.actor.typed, h.actor.pressed)
		}
		text := resultText(t, res)
		if !strings.Contains(text, "action: type") || !strings.Contains(text, "key: enter") {
			t.Errorf("result:\n%s", text)
		}
	})
	t.Run("key only", func(t *testing.T) {
		h := newHarness()
		res, _ := h.srv.handleType(context.Background(), request(map[string]interface{}{"app_name": "Notes", "key": "cmd+a"}))
		if res.IsError {
			t.Fatalf("unexpected error: %s", resultText(t, res))
		}
		if len(h.actor.typed) != 0 || !strings.Contains(resultText(t, res), "action: key") {
			t.Errorf("typed %v result %s", h.actor.typed, resultText(t, res))
		}
	})
	t.Run("empty text", func(t *testing.T) {
		h := newHarness()
		res, _ := h.srv.handleType(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
		if !res.IsError || !strings.Contains(resultText(t, res), "kind: invalid_argument") {
			t.Errorf("got %s", resultText(t, res))
		}
	})
}

func TestHandleFocus(t *testing.T) {
	h := newHarness()
	res, _ := h.srv.handleFocus(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	if len(h.foc.activated) != 1 || h.foc.activated[0] != "Notes" {
		t.Errorf("activated = %v", h.foc.activated)
	}
	app, frame, ok := h.svc.Session().Focused()
	if !ok || app != "Notes" || frame != testFrame {
		t.Errorf("focused = %q %v %v", app, frame, ok)
	}

	h.foc.err = fmt.Errorf("find Ghost: %w", platform.ErrWindowNotFound)
	res, _ = h.srv.handleFocus(context.Background(), request(map[string]interface{}{"app_name": "Ghost"}))
	if !strings.Contains(resultText(t, res), "kind: window_not_found") {
		t.Errorf("got %s", resultText(t, res))
	}
}

func TestHandleAnnotated_ReturnsPNG(t *testing.T) {
	h := newHarness()
	res, err := h.srv.handleAnnotated(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(t, res))
	}
	var found bool
	for _, c := range res.Content {
		if ic, ok := c.(mcp.ImageContent); ok {
			found = true
			if ic.MIMEType != "image/png" || ic.Data == "" {
				t.Errorf("image content = %s, %d bytes", ic.MIMEType, len(ic.Data))
			}
		}
	}
	if !found {
		t.Error("no image content in result")
	}
	if !strings.Contains(resultText(t, res), "3 numbered elements") {
		t.Errorf("caption = %s", resultText(t, res))
	}
}

func TestCall_RecoversPanic(t *testing.T) {
	h := newHarness()
	h.det.panics = true
	res, err := h.srv.handleDetect(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
	if err != nil {
		t.Fatalf("panic escaped as error: %v", err)
	}
	text := resultText(t, res)
	if !res.IsError || !strings.Contains(text, "kind: internal") || !strings.Contains(text, "detector exploded") {
		t.Errorf("got %s", text)
	}

	// The mutex must be released after a panic.
	h.det.panics = false
	res, _ = h.srv.handleDetect(context.Background(), request(map[string]interface{}{"app_name": "Notes"}))
	if res.IsError {
		t.Errorf("second call failed: %s", resultText(t, res))
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("capture: %w", platform.ErrPermissionDenied), KindPermissionDenied},
		{fmt.Errorf("%w: accessibility: %w", detect.ErrDetectorFailed, platform.ErrPermissionDenied), KindPermissionDenied},
		{fmt.Errorf("find: %w", platform.ErrWindowNotFound), KindWindowNotFound},
		{fmt.Errorf("Notes: %w", window.ErrBoundsUnresolved), KindBoundsUnresolved},
		{model.ErrFrameUnresolved, KindBoundsUnresolved},
		{fmt.Errorf("ai: %w", detect.ErrParseFailed), KindParseFailed},
		{fmt.Errorf("ocr: %w", detect.ErrDetectorFailed), KindDetectorFailed},
		{detect.ErrNoElements, KindNoElements},
		{&actuate.IndexError{Index: 3, Len: 1}, KindIndexOutOfRange},
		{fmt.Errorf("click: %w", platform.ErrActuationFailed), KindActuationFailed},
		{platform.ErrUnsupported, KindUnsupported},
		{errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestServe_UnsupportedTransport(t *testing.T) {
	h := newHarness()
	err := h.srv.Serve(Config{Transport: "carrier-pigeon"})
	if err == nil || !strings.Contains(err.Error(), "unsupported transport") {
		t.Errorf("err = %v", err)
	}
}

func TestAnnotate_ReusesLatestSnapshot(t *testing.T) {
	h := newHarness()
	report, err := h.svc.Detect(context.Background(), "Notes", "")
	if err != nil {
		t.Fatal(err)
	}
	shot, err := h.svc.Annotate(context.Background(), "Notes", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if shot.DetectionID != report.DetectionID {
		t.Errorf("detection id = %s, want %s", shot.DetectionID, report.DetectionID)
	}
	if h.det.calls != 1 {
		t.Errorf("detector calls = %d, want 1", h.det.calls)
	}
}

func TestDetect_WindowNotFoundDropsSnapshots(t *testing.T) {
	h := newHarness()
	if _, err := h.svc.Detect(context.Background(), "Notes", ""); err != nil {
		t.Fatal(err)
	}
	h.det.err = fmt.Errorf("find Notes: %w", platform.ErrWindowNotFound)
	if _, err := h.svc.Detect(context.Background(), "Notes", ""); !errors.Is(err, platform.ErrWindowNotFound) {
		t.Fatalf("err = %v", err)
	}
	if h.svc.Session().Len() != 0 {
		t.Errorf("snapshots = %d, want 0 after the app disappeared", h.svc.Session().Len())
	}
}
