package detect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mj1618/desktop-locate/internal/model"
	"github.com/mj1618/desktop-locate/internal/platform"
)

const accessibilityConfidence = 0.95

// Accessibility reads the OS accessibility tree of the app's front window.
type Accessibility struct {
	processes platform.ProcessFinder
	reader    platform.AccessibilityReader
	logger    *zap.Logger
}

// NewAccessibility creates the accessibility-tree detector.
func NewAccessibility(processes platform.ProcessFinder, reader platform.AccessibilityReader, logger *zap.Logger) *Accessibility {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessibility{processes: processes, reader: reader, logger: logger}
}

func (d *Accessibility) Strategy() model.Strategy { return model.StrategyAccessibility }
func (d *Accessibility) NeedsScreenshot() bool    { return false }

func (d *Accessibility) Detect(ctx context.Context, req Request) (model.DetectionResult, error) {
	pid, err := d.processes.FindApp(ctx, req.App)
	if err != nil {
		return model.DetectionResult{}, failed(d.Strategy(), err)
	}
	nodes, err := d.reader.ReadNodes(ctx, pid)
	if err != nil {
		return model.DetectionResult{}, failed(d.Strategy(), err)
	}
	elements, err := elementsFromNodes(nodes, req.Frame)
	if err != nil {
		return model.DetectionResult{}, failed(d.Strategy(), err)
	}
	d.logger.Debug("accessibility tree read",
		zap.String("app", req.App), zap.Int("nodes", len(nodes)), zap.Int("elements", len(elements)))

	summary := fmt.Sprintf("Found %d elements in the accessibility tree of %s", len(elements), req.App)
	return model.NewDetectionResult(d.Strategy(), elements, summary, suggestActions(elements, 5), accessibilityConfidence), nil
}

// elementsFromNodes converts accessibility nodes to elements. The window
// root is dropped, as are unknown-kind nodes that are unlabeled or have no
// area. Positions outside the frame are clamped into it.
func elementsFromNodes(nodes []platform.AXNode, frame model.WindowFrame) ([]model.Element, error) {
	elements := make([]model.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Depth == 0 && n.Role == "AXWindow" {
			continue
		}
		kind := model.MapRole(n.Role)
		label := n.Label()
		r := n.Rect()
		if kind == model.KindUnknown && (label == "" || r.Empty()) {
			continue
		}
		norm, err := frame.NormalizeOrigin(r)
		if err != nil {
			return nil, err
		}
		el := model.Element{
			Kind:       kind,
			Label:      label,
			Normalized: norm,
			Clickable:  model.IsClickable(kind, n.Enabled),
			Enabled:    n.Enabled,
			Confidence: accessibilityConfidence,
		}
		if !r.Empty() {
			rel := frame.Relative(r)
			el.Bounds = &rel
		}
		elements = append(elements, el)
	}
	return elements, nil
}
