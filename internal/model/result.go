package model

// DetectionResult is what a single detector produced for one window.
//
// Results are values: NewDetectionResult copies its inputs and every
// consumer in this module copies Elements before modifying them.
type DetectionResult struct {
	Strategy         Strategy  `yaml:"strategy"                    json:"strategy"`
	Elements         []Element `yaml:"elements"                    json:"elements"`
	Summary          string    `yaml:"summary,omitempty"           json:"summary,omitempty"`
	SuggestedActions []string  `yaml:"suggested_actions,omitempty" json:"suggested_actions,omitempty"`
	Confidence       float64   `yaml:"confidence"                  json:"confidence"`
	// Fallback marks a result made of canned elements substituted by a
	// detector whose real backend failed.
	Fallback bool `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// NewDetectionResult builds a result, copying elements and actions and
// stamping every element's Source with strategy.
func NewDetectionResult(strategy Strategy, elements []Element, summary string, actions []string, confidence float64) DetectionResult {
	els := make([]Element, len(elements))
	for i, el := range elements {
		el.Source = strategy
		if el.Bounds != nil {
			b := *el.Bounds
			el.Bounds = &b
		}
		els[i] = el
	}
	acts := make([]string, len(actions))
	copy(acts, actions)
	return DetectionResult{
		Strategy:         strategy,
		Elements:         els,
		Summary:          summary,
		SuggestedActions: acts,
		Confidence:       confidence,
	}
}

// Empty reports whether the result carries no elements.
func (r DetectionResult) Empty() bool {
	return len(r.Elements) == 0
}

// PipelineOutcome is what the detection waterfall ultimately returns.
// Mode is "auto", "all", or the forced strategy name; Chosen is the
// strategy whose result won and is empty in "all" mode.
type PipelineOutcome struct {
	Mode             string            `yaml:"mode"                        json:"mode"`
	Chosen           Strategy          `yaml:"chosen,omitempty"            json:"chosen,omitempty"`
	Elements         []Element         `yaml:"elements"                    json:"elements"`
	Frame            WindowFrame       `yaml:"frame"                       json:"frame"`
	Summary          string            `yaml:"summary,omitempty"           json:"summary,omitempty"`
	SuggestedActions []string          `yaml:"suggested_actions,omitempty" json:"suggested_actions,omitempty"`
	Results          []DetectionResult `yaml:"-"                           json:"-"`
}
