// Package cleanup applies text transforms across every test case in a
// project: descriptions, pre/postconditions, steps (recursively) and
// custom field values. It builds minimal partial updates so untouched
// fields are never rewritten.
package cleanup

import (
	"strings"

	"qasetool/internal/qase"
)

// Transform rewrites a block of case text. It returns the new text and
// whether anything changed.
type Transform func(text string) (string, bool)

// Sweep describes one cleanup pass over a test case.
type Sweep struct {
	// Transform is applied to every text field of the case.
	Transform Transform

	// CustomFields also applies the transform to custom field values.
	CustomFields bool

	// BackfillAction replaces empty step actions with "." so the update
	// passes API validation. Steps imported from other tools sometimes
	// arrive with a blank action.
	BackfillAction bool
}

// Analyze runs the sweep over one test case and returns a partial update
// containing only the fields that changed, or nil when the case is clean.
func (s *Sweep) Analyze(tc *qase.TestCase) *qase.CaseUpdate {
	update := &qase.CaseUpdate{}

	if tc.Description != "" {
		if fixed, changed := s.Transform(tc.Description); changed {
			update.Description = &fixed
		}
	}
	if tc.Preconditions != "" {
		if fixed, changed := s.Transform(tc.Preconditions); changed {
			update.Preconditions = &fixed
		}
	}
	if tc.Postconditions != "" {
		if fixed, changed := s.Transform(tc.Postconditions); changed {
			update.Postconditions = &fixed
		}
	}

	if len(tc.Steps) > 0 {
		// The API replaces the whole step list on update, so every step is
		// carried over in full and the list is only sent when one changed.
		steps, changed := s.fixSteps(tc.Steps)
		if changed {
			update.Steps = steps
		}
	}

	if s.CustomFields {
		for _, field := range tc.CustomFields {
			if field.Value == "" {
				continue
			}
			if fixed, changed := s.Transform(field.Value); changed {
				update.SetCustomField(field.ID, fixed)
			}
		}
	}

	if update.IsZero() {
		return nil
	}
	return update
}

func (s *Sweep) fixSteps(steps []qase.Step) ([]qase.StepUpdate, bool) {
	out := make([]qase.StepUpdate, 0, len(steps))
	changed := false

	for _, step := range steps {
		fixed := qase.StepUpdate{
			Position:       step.Position,
			Hash:           step.Hash,
			Action:         step.Action,
			ExpectedResult: step.ExpectedResult,
			Data:           step.Data,
		}

		if step.Action != "" {
			if text, ok := s.Transform(step.Action); ok {
				fixed.Action = text
				changed = true
			}
		}
		if s.BackfillAction && strings.TrimSpace(fixed.Action) == "" {
			fixed.Action = "."
			changed = true
		}
		if step.ExpectedResult != "" {
			if text, ok := s.Transform(step.ExpectedResult); ok {
				fixed.ExpectedResult = text
				changed = true
			}
		}
		if step.Data != "" {
			if text, ok := s.Transform(step.Data); ok {
				fixed.Data = text
				changed = true
			}
		}

		if len(step.Steps) > 0 {
			nested, nestedChanged := s.fixSteps(step.Steps)
			fixed.Steps = nested
			if nestedChanged {
				changed = true
			}
		}

		out = append(out, fixed)
	}
	return out, changed
}
