package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mj1618/desktop-locate/internal/model"
)

// maxLabelWidth is the display width labels are truncated to in reports.
const maxLabelWidth = 48

// DetectionReport is the result of a detection run as returned to callers.
type DetectionReport struct {
	DetectionID      string            `yaml:"detection_id"                json:"detection_id"`
	App              string            `yaml:"app"                         json:"app"`
	Mode             string            `yaml:"mode"                        json:"mode"`
	Chosen           model.Strategy    `yaml:"chosen,omitempty"            json:"chosen,omitempty"`
	Frame            model.WindowFrame `yaml:"frame"                       json:"frame"`
	Summary          string            `yaml:"summary,omitempty"           json:"summary,omitempty"`
	Elements         []model.Element   `yaml:"elements"                    json:"elements"`
	SuggestedActions []string          `yaml:"suggested_actions,omitempty" json:"suggested_actions,omitempty"`
}

// NewDetectionReport wraps a pipeline outcome stored under id.
func NewDetectionReport(id, app string, o model.PipelineOutcome) DetectionReport {
	return DetectionReport{
		DetectionID:      id,
		App:              app,
		Mode:             o.Mode,
		Chosen:           o.Chosen,
		Frame:            o.Frame,
		Summary:          o.Summary,
		Elements:         o.Elements,
		SuggestedActions: o.SuggestedActions,
	}
}

// Text renders the report as a numbered list. Numbers start at 1; the
// element_index tool argument is the number minus one.
func (r DetectionReport) Text() string {
	var b strings.Builder
	method := r.Mode
	if r.Chosen != "" && string(r.Chosen) != r.Mode {
		method = fmt.Sprintf("%s (%s)", r.Chosen, r.Mode)
	}
	fmt.Fprintf(&b, "Detected %d elements in %s via %s, window %s\n", len(r.Elements), r.App, method, r.Frame)
	fmt.Fprintf(&b, "detection_id: %s\n", r.DetectionID)
	if r.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	}
	b.WriteString("\n")
	for i, el := range r.Elements {
		b.WriteString(elementLine(i+1, el))
		b.WriteString("\n")
	}
	if len(r.SuggestedActions) > 0 {
		b.WriteString("\nSuggested actions:\n")
		for _, a := range r.SuggestedActions {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	if len(r.Elements) > 0 {
		fmt.Fprintf(&b, "\nTo act on element N pass element_index N-1 (valid range 0–%d) with detection_id %s.\n",
			len(r.Elements)-1, r.DetectionID)
	}
	return b.String()
}

func elementLine(n int, el model.Element) string {
	label := strings.Join(strings.Fields(el.Label), " ")
	if label == "" {
		label = "(unlabeled)"
	} else {
		label = fmt.Sprintf("%q", runewidth.Truncate(label, maxLabelWidth, "…"))
	}
	var flags []string
	if el.Clickable {
		flags = append(flags, "clickable")
	}
	if !el.Enabled {
		flags = append(flags, "disabled")
	}
	line := fmt.Sprintf("%d. [%s] %s at screen (%.0f,%.0f) normalized (%.3f,%.3f) confidence %.2f source %s",
		n, el.Kind, label, el.Screen.X, el.Screen.Y, el.Normalized.X, el.Normalized.Y, el.Confidence, el.Source)
	if len(flags) > 0 {
		line += " " + strings.Join(flags, " ")
	}
	return line
}
