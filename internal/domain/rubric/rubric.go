// Package rubric is the validated in-memory form of a judging rubric.
//
// A Rubric is immutable after Parse and may be shared across concurrent judge calls.
package rubric

import (
	"fmt"
	"maps"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/vecjudge/internal/domain"
)

// Schema defaults.
const (
	DefaultVersion      = "0.1"
	DefaultPassingScore = 0.6
	DefaultWeight       = 1.0
	DefaultSeverity     = SeverityWarn
	DefaultChecker      = Semantic
)

// Rubric is a named, versioned set of weighted rules with a passing threshold.
type Rubric struct {
	name         string
	version      string
	rules        []Rule
	passingScore float64
	notes        string
}

// Name returns the rubric name.
func (r *Rubric) Name() string { return r.name }

// Version returns the rubric version.
func (r *Rubric) Version() string { return r.version }

// Rules returns the rules in declared order.
func (r *Rubric) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// PassingScore returns the fraction of weighted points required to pass.
func (r *Rubric) PassingScore() float64 { return r.passingScore }

// Notes returns the optional free-text notes.
func (r *Rubric) Notes() string { return r.notes }

// Key identifies the rubric by name and version, suitable as a cache key.
func (r *Rubric) Key() string { return r.name + "@" + r.version }

// Document is the canonical file shape of a rubric (YAML or JSON).
// Pointer fields distinguish an omitted key from an explicit zero.
type Document struct {
	Name         string         `yaml:"name" json:"name"`
	Version      string         `yaml:"version,omitempty" json:"version,omitempty"`
	Rules        []RuleDocument `yaml:"rules" json:"rules"`
	PassingScore *float64       `yaml:"passing_score,omitempty" json:"passing_score,omitempty"`
	Notes        *string        `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// RuleDocument is the canonical file shape of a rule.
type RuleDocument struct {
	ID          string         `yaml:"id" json:"id"`
	Description string         `yaml:"description" json:"description"`
	Weight      *float64       `yaml:"weight,omitempty" json:"weight,omitempty"`
	Severity    string         `yaml:"severity,omitempty" json:"severity,omitempty"`
	Checker     string         `yaml:"checker,omitempty" json:"checker,omitempty"`
	Params      map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// Decode parses a YAML (or JSON) rubric document and validates it.
func Decode(data []byte) (Rubric, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Rubric{}, fmt.Errorf("%w: decode: %w", domain.ErrInvalidRubric, err)
	}
	return Parse(doc)
}

// Parse validates a rubric document and applies schema defaults.
// Errors are *domain.InvalidRubricError carrying the violated field.
func Parse(doc Document) (Rubric, error) {
	if doc.Name == "" {
		return Rubric{}, domain.NewInvalidRubric("name", "is required")
	}
	if len(doc.Rules) == 0 {
		return Rubric{}, domain.NewInvalidRubric("rules", "must not be empty")
	}

	rub := Rubric{
		name:         doc.Name,
		version:      doc.Version,
		passingScore: DefaultPassingScore,
	}
	if rub.version == "" {
		rub.version = DefaultVersion
	}
	if doc.PassingScore != nil {
		ps := *doc.PassingScore
		if math.IsNaN(ps) || ps < 0 || ps > 1 {
			return Rubric{}, domain.NewInvalidRubric("passing_score", fmt.Sprintf("must be between 0 and 1, got %v", ps))
		}
		rub.passingScore = ps
	}
	if doc.Notes != nil {
		rub.notes = *doc.Notes
	}

	rub.rules = make([]Rule, 0, len(doc.Rules))
	for i := range doc.Rules {
		rule, err := parseRule(i, &doc.Rules[i])
		if err != nil {
			return Rubric{}, err
		}
		rub.rules = append(rub.rules, rule)
	}
	return rub, nil
}

func parseRule(i int, d *RuleDocument) (Rule, error) {
	field := func(name string) string { return fmt.Sprintf("rules[%d].%s", i, name) }

	if d.ID == "" {
		return Rule{}, domain.NewInvalidRubric(field("id"), "is required")
	}
	if d.Description == "" {
		return Rule{}, domain.NewInvalidRubric(field("description"), "is required")
	}

	r := Rule{
		id:          d.ID,
		description: d.Description,
		weight:      DefaultWeight,
		severity:    DefaultSeverity,
		checker:     DefaultChecker,
		params:      maps.Clone(d.Params),
	}
	if r.params == nil {
		r.params = map[string]any{}
	}

	if d.Weight != nil {
		w := *d.Weight
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return Rule{}, domain.NewInvalidRubric(field("weight"), fmt.Sprintf("must be a non-negative number, got %v", w))
		}
		r.weight = w
	}
	if d.Severity != "" {
		r.severity = Severity(d.Severity)
		if !r.severity.IsValid() {
			return Rule{}, domain.NewInvalidRubric(field("severity"), fmt.Sprintf("must be info, warn or error, got %q", d.Severity))
		}
	}
	if d.Checker != "" {
		r.checker = Checker(d.Checker)
		if !r.checker.IsValid() {
			return Rule{}, domain.NewInvalidRubric(field("checker"),
				fmt.Sprintf("must be contains_any, contains_all or llm, got %q", d.Checker))
		}
	}

	terms, err := termsFromParams(r.params)
	if err != nil {
		return Rule{}, domain.NewInvalidRubric(field("params.terms"), err.Error())
	}
	r.terms = terms
	return r, nil
}

// Document returns the canonical form with every default made explicit.
func (r *Rubric) Document() Document {
	ps := r.passingScore
	doc := Document{
		Name:         r.name,
		Version:      r.version,
		PassingScore: &ps,
		Rules:        make([]RuleDocument, len(r.rules)),
	}
	if r.notes != "" {
		notes := r.notes
		doc.Notes = &notes
	}
	for i := range r.rules {
		rule := &r.rules[i]
		w := rule.weight
		doc.Rules[i] = RuleDocument{
			ID:          rule.id,
			Description: rule.description,
			Weight:      &w,
			Severity:    string(rule.severity),
			Checker:     string(rule.checker),
			Params:      maps.Clone(rule.params),
		}
		if len(doc.Rules[i].Params) == 0 {
			doc.Rules[i].Params = nil
		}
	}
	return doc
}

// Encode serializes the rubric in its canonical YAML form.
func (r *Rubric) Encode() ([]byte, error) {
	data, err := yaml.Marshal(r.Document())
	if err != nil {
		return nil, fmt.Errorf("encode rubric: %w", err)
	}
	return data, nil
}
