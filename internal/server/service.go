// Package server exposes element detection and actuation as MCP tools. The
// Service type holds the operations; Server adapts them to the MCP boundary
// and the cmd package calls them directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/actuate"
	"github.com/mj1618/desktop-locate/internal/detect"
	"github.com/mj1618/desktop-locate/internal/imaging"
	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/output"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/session"
)

// ErrInvalidArgument marks a malformed tool argument.
var ErrInvalidArgument = errors.New("invalid argument")

// Detector runs the detection waterfall; *detect.Pipeline implements it.
type Detector interface {
	Run(ctx context.Context, sess *session.Session, app string, mode detect.Mode) (model.PipelineOutcome, error)
}

// Focuser activates windows and resolves their frames; *window.Resolver
// implements it.
type Focuser interface {
	Resolve(ctx context.Context, app string) (model.WindowFrame, error)
	Activate(ctx context.Context, app string) error
}

// Actor performs pointer and keyboard actions; *actuate.Actuator
// implements it.
type Actor interface {
	Click(ctx context.Context, app string, el model.Element, opts actuate.ClickOptions) (actuate.Result, error)
	Type(ctx context.Context, app, text string, target *model.Element) (actuate.Result, error)
	Press(ctx context.Context, app, combo string) (actuate.Result, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Detector      Detector
	Focuser       Focuser
	Actor         Actor
	Screenshotter platform.Screenshotter
	Session       *session.Session
	DefaultMode   detect.Mode
	Logger        *zap.Logger
}

// Service implements the tool operations.
type Service struct {
	deps Deps
}

// NewService creates a service.
func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Session == nil {
		deps.Session = session.New(0)
	}
	if deps.DefaultMode == "" {
		deps.DefaultMode = detect.ModeAuto
	}
	return &Service{deps: deps}
}

// Session returns the session shared by all calls.
func (s *Service) Session() *session.Session { return s.deps.Session }

func (s *Service) mode(raw string) (detect.Mode, error) {
	if strings.TrimSpace(raw) == "" {
		return s.deps.DefaultMode, nil
	}
	m, err := detect.ParseMode(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return m, nil
}

func requireApp(app string) error {
	if strings.TrimSpace(app) == "" {
		return fmt.Errorf("%w: app_name is required", ErrInvalidArgument)
	}
	return nil
}

// Detect runs detection for app and stores the outcome as a snapshot.
func (s *Service) Detect(ctx context.Context, app, rawMode string) (output.DetectionReport, error) {
	if err := requireApp(app); err != nil {
		return output.DetectionReport{}, err
	}
	mode, err := s.mode(rawMode)
	if err != nil {
		return output.DetectionReport{}, err
	}
	snap, err := s.detect(ctx, app, mode)
	if err != nil {
		return output.DetectionReport{}, err
	}
	return output.NewDetectionReport(snap.ID, app, snap.Outcome), nil
}

func (s *Service) detect(ctx context.Context, app string, mode detect.Mode) (session.Snapshot, error) {
	outcome, err := s.deps.Detector.Run(ctx, s.deps.Session, app, mode)
	if err != nil {
		if errors.Is(err, platform.ErrWindowNotFound) {
			s.deps.Session.InvalidateApp(app)
		}
		return session.Snapshot{}, err
	}
	snap := s.deps.Session.Store(app, string(mode), outcome)
	s.deps.Logger.Info("detection stored",
		zap.String("app", app), zap.String("mode", string(mode)), zap.String("chosen", string(outcome.Chosen)),
		zap.Int("elements", len(outcome.Elements)), zap.String("detection_id", snap.ID))
	return snap, nil
}

// elements returns the snapshot named by detectionID, or runs detection
// afresh when the id is empty, unknown or expired.
func (s *Service) elements(ctx context.Context, app, detectionID, rawMode string) (session.Snapshot, error) {
	if detectionID != "" {
		if snap, ok := s.deps.Session.Lookup(detectionID, app); ok {
			return snap, nil
		}
		s.deps.Logger.Info("detection snapshot not found, detecting again",
			zap.String("app", app), zap.String("detection_id", detectionID))
	}
	mode, err := s.mode(rawMode)
	if err != nil {
		return session.Snapshot{}, err
	}
	return s.detect(ctx, app, mode)
}

// ClickParams are the arguments of Click.
type ClickParams struct {
	App          string
	ElementIndex int
	DetectionID  string
	Mode         string
	Button       string
	Double       bool
}

// ActionResult is the payload of a successful action.
type ActionResult struct {
	OK           bool              `yaml:"ok"                      json:"ok"`
	Action       string            `yaml:"action"                  json:"action"`
	App          string            `yaml:"app"                     json:"app"`
	ElementIndex *int              `yaml:"element_index,omitempty" json:"element_index,omitempty"`
	DetectionID  string            `yaml:"detection_id,omitempty"  json:"detection_id,omitempty"`
	Element      *model.Element    `yaml:"element,omitempty"       json:"element,omitempty"`
	X            int               `yaml:"x,omitempty"             json:"x,omitempty"`
	Y            int               `yaml:"y,omitempty"             json:"y,omitempty"`
	Frame        model.WindowFrame `yaml:"frame"                   json:"frame"`
	Text         string            `yaml:"text,omitempty"          json:"text,omitempty"`
	Key          string            `yaml:"key,omitempty"           json:"key,omitempty"`
}

func actionResult(res actuate.Result, index *int, detectionID string) ActionResult {
	return ActionResult{
		OK:           true,
		Action:       res.Action,
		App:          res.App,
		ElementIndex: index,
		DetectionID:  detectionID,
		Element:      res.Element,
		X:            res.X,
		Y:            res.Y,
		Frame:        res.Frame,
		Text:         res.Text,
	}
}

// Click clicks the element at p.ElementIndex (0-based).
func (s *Service) Click(ctx context.Context, p ClickParams) (ActionResult, error) {
	if err := requireApp(p.App); err != nil {
		return ActionResult{}, err
	}
	button, err := platform.ParseMouseButton(p.Button)
	if err != nil {
		return ActionResult{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	snap, err := s.elements(ctx, p.App, p.DetectionID, p.Mode)
	if err != nil {
		return ActionResult{}, err
	}
	el, err := actuate.Pick(snap.Outcome.Elements, p.ElementIndex)
	if err != nil {
		return ActionResult{}, err
	}
	count := 1
	if p.Double {
		count = 2
	}
	res, err := s.deps.Actor.Click(ctx, p.App, el, actuate.ClickOptions{Button: button, Count: count})
	if err != nil {
		return ActionResult{}, err
	}
	s.deps.Session.SetFocused(p.App, res.Frame)
	idx := p.ElementIndex
	return actionResult(res, &idx, snap.ID), nil
}

// TypeParams are the arguments of Type. ElementIndex, when set, names the
// element to click before typing. Key is a combo such as "enter" pressed
// after the text.
type TypeParams struct {
	App          string
	Text         string
	Key          string
	ElementIndex *int
	DetectionID  string
	Mode         string
}

// Type types p.Text into the app, optionally focusing an element first,
// then presses p.Key.
func (s *Service) Type(ctx context.Context, p TypeParams) (ActionResult, error) {
	if err := requireApp(p.App); err != nil {
		return ActionResult{}, err
	}
	if p.Text == "" && p.Key == "" {
		return ActionResult{}, fmt.Errorf("%w: text or key is required", ErrInvalidArgument)
	}
	var target *model.Element
	var detectionID string
	if p.ElementIndex != nil {
		snap, err := s.elements(ctx, p.App, p.DetectionID, p.Mode)
		if err != nil {
			return ActionResult{}, err
		}
		el, err := actuate.Pick(snap.Outcome.Elements, *p.ElementIndex)
		if err != nil {
			return ActionResult{}, err
		}
		target, detectionID = &el, snap.ID
	}
	var res actuate.Result
	if p.Text != "" || target != nil {
		typed, err := s.deps.Actor.Type(ctx, p.App, p.Text, target)
		if err != nil {
			return ActionResult{}, err
		}
		res = typed
	}
	if p.Key != "" {
		pressed, err := s.deps.Actor.Press(ctx, p.App, p.Key)
		if err != nil {
			return ActionResult{}, err
		}
		if res.Action == "" {
			res = pressed
		}
	}
	s.deps.Session.SetFocused(p.App, res.Frame)
	out := actionResult(res, p.ElementIndex, detectionID)
	out.Key = p.Key
	return out, nil
}

// FocusResult is the payload of Focus.
type FocusResult struct {
	OK    bool              `yaml:"ok"    json:"ok"`
	App   string            `yaml:"app"   json:"app"`
	Frame model.WindowFrame `yaml:"frame" json:"frame"`
}

// Focus brings app to the foreground and reports its resolved frame.
func (s *Service) Focus(ctx context.Context, app string) (FocusResult, error) {
	if err := requireApp(app); err != nil {
		return FocusResult{}, err
	}
	if err := s.deps.Focuser.Activate(ctx, app); err != nil {
		return FocusResult{}, err
	}
	frame, err := s.deps.Focuser.Resolve(ctx, app)
	if err != nil {
		return FocusResult{}, err
	}
	s.deps.Session.SetFocused(app, frame)
	return FocusResult{OK: true, App: app, Frame: frame}, nil
}

// AnnotatedShot is a window capture with numbered element markers.
type AnnotatedShot struct {
	DetectionID string
	App         string
	Frame       model.WindowFrame
	Elements    int
	Image       *image.RGBA
}

// Annotate captures app's window and marks the elements of the given
// snapshot with their 1-based numbers. Without a detection id the app's
// newest snapshot is used, so the numbers match the last report; detection
// runs only when there is none.
func (s *Service) Annotate(ctx context.Context, app, detectionID, rawMode string) (AnnotatedShot, error) {
	if err := requireApp(app); err != nil {
		return AnnotatedShot{}, err
	}
	if s.deps.Screenshotter == nil {
		return AnnotatedShot{}, fmt.Errorf("screenshots not available: %w", platform.ErrUnsupported)
	}
	if detectionID == "" && rawMode == "" {
		if latest, ok := s.deps.Session.Latest(app); ok {
			detectionID = latest.ID
		}
	}
	snap, err := s.elements(ctx, app, detectionID, rawMode)
	if err != nil {
		return AnnotatedShot{}, err
	}
	frame, err := s.deps.Focuser.Resolve(ctx, app)
	if err != nil {
		return AnnotatedShot{}, err
	}
	img, err := s.deps.Screenshotter.CaptureRegion(ctx, frame)
	if err != nil {
		return AnnotatedShot{}, err
	}
	return AnnotatedShot{
		DetectionID: snap.ID,
		App:         app,
		Frame:       frame,
		Elements:    len(snap.Outcome.Elements),
		Image:       imaging.Annotate(img, snap.Outcome.Elements, frame),
	}, nil
}
