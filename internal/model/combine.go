package model

import (
	"math"
	"strings"
)

// combineKey identifies elements that several detectors reported for the
// same spot on screen.
type combineKey struct {
	kind  Kind
	label string
	x, y  float64
}

func keyOf(el Element) combineKey {
	return combineKey{
		kind:  el.Kind,
		label: strings.ToLower(strings.TrimSpace(el.Label)),
		x:     round2(el.Normalized.X),
		y:     round2(el.Normalized.Y),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Combine flattens the elements of all results in order and removes
// duplicates keyed by (kind, label, normalized position rounded to two
// decimals). The first occurrence wins, so callers pass results in strategy
// priority order to keep the higher-priority detector's element.
func Combine(results []DetectionResult) []Element {
	seen := make(map[combineKey]bool)
	var combined []Element
	for _, r := range results {
		for _, el := range r.Elements {
			k := keyOf(el)
			if seen[k] {
				continue
			}
			seen[k] = true
			combined = append(combined, el)
		}
	}
	if combined == nil {
		combined = []Element{}
	}
	return combined
}

// CombineActions unions the suggested actions of all results, dropping exact
// duplicates and keeping first-appearance order.
func CombineActions(results []DetectionResult) []string {
	seen := make(map[string]bool)
	var actions []string
	for _, r := range results {
		for _, a := range r.SuggestedActions {
			if seen[a] {
				continue
			}
			seen[a] = true
			actions = append(actions, a)
		}
	}
	return actions
}
