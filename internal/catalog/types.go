// Package catalog defines the registration question catalog: an ordered,
// immutable list of question descriptors with validation rules and
// conditional dependencies, plus the pure helpers that validate answers
// and compute forward/backward navigation with skip logic.
package catalog

import "strconv"

// Type identifies how a question is asked and how its raw input is parsed.
type Type string

const (
	TypeText         Type = "text"
	TypeTextarea     Type = "textarea"
	TypeEmail        Type = "email"
	TypeNumber       Type = "number"
	TypeScale        Type = "scale"
	TypeBoolean      Type = "boolean"
	TypeSingleSelect Type = "single-select"
	TypeMultiSelect  Type = "multi-select-numbered"
	TypeRanking      Type = "ranking-numbered"
)

// Answers maps question ids (plus the identity keys firstName, lastName,
// email) to typed answer values: string, int, bool, or []string.
type Answers map[string]any

// Clone returns a shallow copy of the answer map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Rules holds the structured validation constraints for one question.
// Zero values mean "not configured". Min and Max are pointers so that a
// configured bound of 0 is distinguishable from an absent bound.
type Rules struct {
	MinLength     int               `yaml:"minLength,omitempty"`
	MaxLength     int               `yaml:"maxLength,omitempty"`
	Min           *int              `yaml:"min,omitempty"`
	Max           *int              `yaml:"max,omitempty"`
	MinSelections int               `yaml:"minSelections,omitempty"`
	MaxSelections int               `yaml:"maxSelections,omitempty"`
	MinRanked     int               `yaml:"minRanked,omitempty"`
	MaxRank       int               `yaml:"maxRank,omitempty"`
	Messages      map[string]string `yaml:"messages,omitempty"`
}

// message returns the configured message for a rule key, or the fallback.
func (r Rules) message(key, fallback string) string {
	if msg, ok := r.Messages[key]; ok && msg != "" {
		return msg
	}
	return fallback
}

// MatchKind selects how a dependency value is compared against the
// stored answer of the question it depends on.
type MatchKind int

const (
	// MatchEquals requires the stored answer to equal the single value.
	MatchEquals MatchKind = iota
	// MatchContainsAny requires the stored answer (a selection list) to
	// contain at least one of the values.
	MatchContainsAny
)

// Dependency is the resolved form of a dependsOn/dependsValue pair.
// It is computed once at catalog load time, never inferred during
// navigation.
type Dependency struct {
	QuestionID string
	Kind       MatchKind
	Values     []string
}

// Satisfied reports whether the dependency condition holds for the
// accumulated answers. A missing answer never satisfies a dependency.
func (d *Dependency) Satisfied(answers Answers) bool {
	stored, ok := answers[d.QuestionID]
	if !ok || stored == nil {
		return false
	}
	switch d.Kind {
	case MatchContainsAny:
		list, ok := stored.([]string)
		if !ok {
			// Scalar answer against a list match: treat as single-element list.
			s, isStr := stored.(string)
			if !isStr {
				return false
			}
			list = []string{s}
		}
		for _, v := range d.Values {
			for _, item := range list {
				if item == v {
					return true
				}
			}
		}
		return false
	default:
		if len(d.Values) == 0 {
			return false
		}
		return answerEquals(stored, d.Values[0])
	}
}

// answerEquals compares a stored typed answer against a dependency value
// expressed as a string.
func answerEquals(stored any, value string) bool {
	switch v := stored.(type) {
	case string:
		return v == value
	case bool:
		if v {
			return value == "true" || value == "yes"
		}
		return value == "false" || value == "no"
	case int:
		return strconv.Itoa(v) == value
	case []string:
		// Equals against a list answer requires exactly one element.
		return len(v) == 1 && v[0] == value
	default:
		return false
	}
}

// Question is one immutable descriptor from the catalog.
type Question struct {
	ID          string `yaml:"id"`
	Order       int    `yaml:"order"`
	Label       string `yaml:"label"`
	Hint        string `yaml:"hint,omitempty"`
	Description string `yaml:"description,omitempty"`
	Type        Type   `yaml:"type"`
	Required    bool   `yaml:"required"`

	// Options are the 1-based user-facing selectors for select, multi-select
	// and ranking questions.
	Options []string `yaml:"options,omitempty"`

	Rules Rules `yaml:"rules,omitempty"`

	// DependsOn/DependsValue declare the raw conditional dependency as
	// written in the catalog file. DependsValue may be a scalar or a list.
	DependsOn    string `yaml:"dependsOn,omitempty"`
	DependsValue any    `yaml:"dependsValue,omitempty"`

	// OtherDetail marks a free-text question that captures detail for an
	// adjacent question's "Other" selection.
	OtherDetail bool `yaml:"otherField,omitempty"`

	// dependency is the resolved matcher, set during catalog load.
	dependency *Dependency
}

// Dependency returns the resolved dependency matcher, or nil when the
// question is unconditional.
func (q *Question) Dependency() *Dependency {
	return q.dependency
}

// Eligible reports whether the question is currently live given the
// accumulated answers.
func (q *Question) Eligible(answers Answers) bool {
	if q.dependency == nil {
		return true
	}
	return q.dependency.Satisfied(answers)
}

// HasOptions reports whether the question type presents numbered options.
func (q *Question) HasOptions() bool {
	switch q.Type {
	case TypeSingleSelect, TypeMultiSelect, TypeRanking:
		return true
	default:
		return false
	}
}
