// Package window resolves the on-screen frame of an application's primary
// window, escalating through activation and repositioning when the OS
// reports no usable bounds.
package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

// ErrBoundsUnresolved means every step of the ladder yielded a frame without
// strictly positive width and height.
var ErrBoundsUnresolved = errors.New("window bounds unresolved")

// Options tunes the escalation ladder.
type Options struct {
	// Settle is how long to wait after activating or moving a window before
	// re-querying its bounds.
	Settle time.Duration
	// Origin is where an unresolvable window is moved on the primary display.
	Origin image.Point
}

// DefaultOptions returns the ladder tuning used when nothing is configured.
func DefaultOptions() Options {
	return Options{Settle: 500 * time.Millisecond, Origin: image.Pt(0, 25)}
}

// Resolver turns an application name into a resolved window frame.
type Resolver struct {
	processes platform.ProcessFinder
	windows   platform.WindowManager
	opts      Options
	logger    *zap.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a resolver backed by the given platform collaborators.
func NewResolver(processes platform.ProcessFinder, windows platform.WindowManager, opts Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		processes: processes,
		windows:   windows,
		opts:      opts,
		logger:    logger,
		sleep:     sleepCtx,
	}
}

// Resolve returns the frame of app's primary window. Each step runs only
// when the previous one produced an unresolved frame:
//
//  1. query the current bounds
//  2. activate the app, settle, re-query
//  3. move the window to the configured origin, settle, re-query
func (r *Resolver) Resolve(ctx context.Context, app string) (model.WindowFrame, error) {
	pid, err := r.processes.FindApp(ctx, app)
	if err != nil {
		return model.WindowFrame{}, err
	}

	frame, err := r.windows.Bounds(ctx, pid)
	if err != nil {
		return model.WindowFrame{}, fmt.Errorf("failed to query bounds of %q: %w", app, err)
	}
	if frame.Resolved() {
		return frame, nil
	}

	r.logger.Debug("window bounds unresolved, activating",
		zap.String("app", app), zap.Int("pid", pid), zap.Stringer("frame", frame))
	if err := r.windows.Activate(ctx, pid); err != nil {
		return model.WindowFrame{}, fmt.Errorf("failed to activate %q: %w", app, err)
	}
	if frame, err = r.settleAndQuery(ctx, pid); err != nil {
		return model.WindowFrame{}, err
	}
	if frame.Resolved() {
		return frame, nil
	}

	r.logger.Debug("window bounds unresolved after activation, repositioning",
		zap.String("app", app), zap.Int("pid", pid),
		zap.Int("x", r.opts.Origin.X), zap.Int("y", r.opts.Origin.Y))
	if err := r.windows.Reposition(ctx, pid, r.opts.Origin.X, r.opts.Origin.Y); err != nil {
		return model.WindowFrame{}, fmt.Errorf("failed to reposition %q: %w", app, err)
	}
	if frame, err = r.settleAndQuery(ctx, pid); err != nil {
		return model.WindowFrame{}, err
	}
	if frame.Resolved() {
		return frame, nil
	}
	return model.WindowFrame{}, fmt.Errorf("%w: %q reported %s", ErrBoundsUnresolved, app, frame)
}

// Current returns app's window frame as the OS reports it right now, with no
// activation or repositioning.
func (r *Resolver) Current(ctx context.Context, app string) (model.WindowFrame, error) {
	pid, err := r.processes.FindApp(ctx, app)
	if err != nil {
		return model.WindowFrame{}, err
	}
	frame, err := r.windows.Bounds(ctx, pid)
	if err != nil {
		return model.WindowFrame{}, fmt.Errorf("failed to query bounds of %q: %w", app, err)
	}
	if !frame.Resolved() {
		return model.WindowFrame{}, fmt.Errorf("%w: %q reported %s", ErrBoundsUnresolved, app, frame)
	}
	return frame, nil
}

// Activate brings app to the foreground without resolving its bounds.
func (r *Resolver) Activate(ctx context.Context, app string) error {
	pid, err := r.processes.FindApp(ctx, app)
	if err != nil {
		return err
	}
	if err := r.windows.Activate(ctx, pid); err != nil {
		return fmt.Errorf("failed to activate %q: %w", app, err)
	}
	return r.sleep(ctx, r.opts.Settle)
}

func (r *Resolver) settleAndQuery(ctx context.Context, pid int) (model.WindowFrame, error) {
	if err := r.sleep(ctx, r.opts.Settle); err != nil {
		return model.WindowFrame{}, err
	}
	frame, err := r.windows.Bounds(ctx, pid)
	if err != nil {
		return model.WindowFrame{}, fmt.Errorf("failed to query bounds of pid %d: %w", pid, err)
	}
	return frame, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
