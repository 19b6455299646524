package rubric

import (
	"fmt"
	"maps"
)

// Severity is the audit level attached to a rule.
type Severity string

// Severity constants.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// IsValid checks if the severity is one of the supported values.
func (s Severity) IsValid() bool {
	return s == SeverityInfo || s == SeverityWarn || s == SeverityError
}

// Checker is the evaluation strategy declared by a rule.
type Checker string

// Checker constants.
const (
	ContainsAny Checker = "contains_any"
	ContainsAll Checker = "contains_all"
	// Semantic delegates the rule to a model-based judgment.
	Semantic Checker = "llm"
)

// IsValid checks if the checker is one of the recognized kinds.
func (c Checker) IsValid() bool {
	return c == ContainsAny || c == ContainsAll || c == Semantic
}

// IsLexical reports whether the checker is evaluated by substring matching.
func (c Checker) IsLexical() bool {
	return c == ContainsAny || c == ContainsAll
}

// Rule is a single weighted, checkable rubric entry.
type Rule struct {
	id          string
	description string
	weight      float64
	severity    Severity
	checker     Checker
	params      map[string]any
	terms       []string
}

// ID returns the rule identifier.
func (r *Rule) ID() string { return r.id }

// Description returns the human-readable rule text; semantic checkers receive it verbatim.
func (r *Rule) Description() string { return r.description }

// Weight returns the non-negative rule weight.
func (r *Rule) Weight() float64 { return r.weight }

// Severity returns the rule severity.
func (r *Rule) Severity() Severity { return r.severity }

// Checker returns the declared checker kind.
func (r *Rule) Checker() Checker { return r.checker }

// Params returns a copy of the raw rule parameters.
func (r *Rule) Params() map[string]any { return maps.Clone(r.params) }

// Terms returns params.terms as strings. Empty when absent.
func (r *Rule) Terms() []string {
	out := make([]string, len(r.terms))
	copy(out, r.terms)
	return out
}

// termsFromParams reads params.terms. A missing key yields no terms.
func termsFromParams(params map[string]any) ([]string, error) {
	raw, ok := params["terms"]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("terms[%d] must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("terms must be a list of strings, got %T", raw)
	}
}
