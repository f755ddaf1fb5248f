package detect

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
	"github.com/mj1618/desktop-locate/internal/session"
)

// Mode selects how the pipeline runs its detectors.
type Mode string

const (
	// ModeAuto runs detectors in priority order until one yields a genuine,
	// non-empty result.
	ModeAuto Mode = "auto"
	// ModeAll runs every enabled detector and combines the results.
	ModeAll Mode = "all"
)

// ParseMode accepts "auto", "all" or a strategy name. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "all":
		return ModeAll, nil
	}
	st, err := model.ParseStrategy(s)
	if err != nil {
		return "", fmt.Errorf("unknown detection method %q (expected auto, all, accessibility, ai, ocr, or heuristic)", s)
	}
	return Mode(st), nil
}

// Forced returns the strategy a forced mode names.
func (m Mode) Forced() (model.Strategy, bool) {
	if m == ModeAuto || m == ModeAll || m == "" {
		return "", false
	}
	return model.Strategy(m), true
}

// FrameResolver resolves window frames; *window.Resolver implements it.
type FrameResolver interface {
	Resolve(ctx context.Context, app string) (model.WindowFrame, error)
	Current(ctx context.Context, app string) (model.WindowFrame, error)
}

// Pipeline runs detectors as a priority waterfall. Detectors run strictly
// one after another.
type Pipeline struct {
	resolver      FrameResolver
	screenshotter platform.Screenshotter
	detectors     map[model.Strategy]Detector
	enabled       []model.Strategy
	logger        *zap.Logger
}

// NewPipeline creates a pipeline. enabled filters and orders the strategies
// used in auto and all modes; a nil slice enables every registered detector
// in priority order.
func NewPipeline(resolver FrameResolver, screenshotter platform.Screenshotter, detectors []Detector, enabled []model.Strategy, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	byStrategy := make(map[model.Strategy]Detector, len(detectors))
	for _, d := range detectors {
		byStrategy[d.Strategy()] = d
	}
	if enabled == nil {
		enabled = model.PriorityOrder
	}
	return &Pipeline{
		resolver:      resolver,
		screenshotter: screenshotter,
		detectors:     byStrategy,
		enabled:       enabled,
		logger:        logger,
	}
}

// plan returns the detectors to run for an unforced mode: the enabled ones
// in priority order, with heuristic always last.
func (p *Pipeline) plan() []Detector {
	enabled := make(map[model.Strategy]bool, len(p.enabled))
	for _, s := range p.enabled {
		enabled[s] = true
	}
	enabled[model.StrategyHeuristic] = true
	var out []Detector
	for _, s := range model.PriorityOrder {
		if d, ok := p.detectors[s]; ok && enabled[s] {
			out = append(out, d)
		}
	}
	if _, ok := p.detectors[model.StrategyHeuristic]; !ok {
		out = append(out, NewHeuristic())
	}
	return out
}

// run holds the per-call state: the frame and the lazily taken screenshot.
type run struct {
	p        *Pipeline
	app      string
	frame    model.WindowFrame
	shot     image.Image
	captured bool
}

// request builds the detector input, capturing the window once on first
// need. A permission failure is returned; any other capture failure leaves
// the screenshot nil so screenshot detectors fail on their own.
func (r *run) request(ctx context.Context, d Detector) (Request, error) {
	req := Request{App: r.app, Frame: r.frame}
	if !d.NeedsScreenshot() {
		return req, nil
	}
	if !r.captured {
		r.captured = true
		img, err := r.p.screenshotter.CaptureRegion(ctx, r.frame)
		if err != nil {
			if errors.Is(err, platform.ErrPermissionDenied) {
				return Request{}, err
			}
			r.p.logger.Warn("window capture failed", zap.String("app", r.app), zap.Error(err))
		}
		r.shot = img
	}
	req.Screenshot = r.shot
	return req, nil
}

func (r *run) detect(ctx context.Context, d Detector) (model.DetectionResult, error) {
	req, err := r.request(ctx, d)
	if err != nil {
		return model.DetectionResult{}, err
	}
	start := time.Now()
	res, err := d.Detect(ctx, req)
	r.p.logger.Debug("detector finished",
		zap.String("strategy", string(d.Strategy())),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("elements", len(res.Elements)),
		zap.Bool("fallback", res.Fallback),
		zap.Error(err))
	return res, err
}

// Run detects the elements of app's window. Window lookup, bounds and
// permission failures are returned; detector failures are only returned in
// forced mode.
func (p *Pipeline) Run(ctx context.Context, sess *session.Session, app string, mode Mode) (model.PipelineOutcome, error) {
	if mode == "" {
		mode = ModeAuto
	}
	frame, err := p.resolver.Resolve(ctx, app)
	if err != nil {
		return model.PipelineOutcome{}, err
	}
	r := &run{p: p, app: app, frame: frame}

	var outcome model.PipelineOutcome
	if forced, ok := mode.Forced(); ok {
		outcome, err = p.runForced(ctx, r, forced)
	} else if mode == ModeAll {
		outcome, err = p.runAll(ctx, r)
	} else {
		outcome, err = p.runAuto(ctx, r)
	}
	if err != nil {
		return model.PipelineOutcome{}, err
	}
	outcome.Mode = string(mode)

	current, err := p.resolver.Current(ctx, app)
	if err != nil {
		p.logger.Warn("window frame re-query failed, using detection frame", zap.String("app", app), zap.Error(err))
		current = frame
	}
	stamped, err := model.StampScreen(outcome.Elements, current)
	if err != nil {
		return model.PipelineOutcome{}, err
	}
	outcome.Elements = stamped
	outcome.Frame = current
	if sess != nil {
		sess.SetFocused(app, current)
	}
	return outcome, nil
}

func (p *Pipeline) runAuto(ctx context.Context, r *run) (model.PipelineOutcome, error) {
	var results []model.DetectionResult
	for _, d := range p.plan() {
		res, err := r.detect(ctx, d)
		if errors.Is(err, platform.ErrPermissionDenied) && !errors.Is(err, ErrDetectorFailed) {
			return model.PipelineOutcome{}, err
		}
		if err != nil {
			p.logger.Warn("detector failed, trying next",
				zap.String("strategy", string(d.Strategy())), zap.Error(err))
			if res.Fallback {
				results = append(results, res)
			}
			continue
		}
		results = append(results, res)
		if res.Fallback || res.Empty() {
			continue
		}
		return outcomeFrom(res, results), nil
	}
	return model.PipelineOutcome{}, fmt.Errorf("%w for %q", ErrNoElements, r.app)
}

func (p *Pipeline) runForced(ctx context.Context, r *run, s model.Strategy) (model.PipelineOutcome, error) {
	d, ok := p.detectors[s]
	if !ok {
		if s != model.StrategyHeuristic {
			return model.PipelineOutcome{}, fmt.Errorf("%w: %s detector is not configured", ErrDetectorFailed, s)
		}
		d = NewHeuristic()
	}
	res, err := r.detect(ctx, d)
	if err != nil {
		return model.PipelineOutcome{}, err
	}
	if res.Fallback {
		return model.PipelineOutcome{}, fmt.Errorf("%w: %s returned only fallback guesses", ErrDetectorFailed, s)
	}
	if res.Empty() {
		return model.PipelineOutcome{}, fmt.Errorf("%w: %s found nothing in %q", ErrNoElements, s, r.app)
	}
	return outcomeFrom(res, []model.DetectionResult{res}), nil
}

func (p *Pipeline) runAll(ctx context.Context, r *run) (model.PipelineOutcome, error) {
	var results []model.DetectionResult
	for _, d := range p.plan() {
		res, err := r.detect(ctx, d)
		if errors.Is(err, platform.ErrPermissionDenied) && !errors.Is(err, ErrDetectorFailed) {
			return model.PipelineOutcome{}, err
		}
		if err != nil && !res.Fallback {
			p.logger.Warn("detector failed", zap.String("strategy", string(d.Strategy())), zap.Error(err))
			continue
		}
		results = append(results, res)
	}
	var summaries []string
	for _, res := range results {
		if res.Summary != "" {
			summaries = append(summaries, fmt.Sprintf("%s: %s", res.Strategy, res.Summary))
		}
	}
	return model.PipelineOutcome{
		Elements:         model.Combine(results),
		Summary:          strings.Join(summaries, "; "),
		SuggestedActions: model.CombineActions(results),
		Results:          results,
	}, nil
}

func outcomeFrom(res model.DetectionResult, results []model.DetectionResult) model.PipelineOutcome {
	return model.PipelineOutcome{
		Chosen:           res.Strategy,
		Elements:         res.Elements,
		Summary:          res.Summary,
		SuggestedActions: res.SuggestedActions,
		Results:          results,
	}
}
