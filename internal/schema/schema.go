// Package schema implements a declarative field validation framework for
// decoded JSON request bodies.
//
// A request shape is declared as an ordered list of FieldSpec values, each
// binding a field name to a reusable Kind (type check plus extra rule) and the
// required/nullable flags. Validation is a pure function over the decoded
// map: it never mutates its input and depends only on the supplied clock.
//
// Validation is deferred: callers decode first, then invoke Validate
// explicitly. A JSON null is treated the same as an absent key.
package schema

import "time"

// FieldSpec is a reusable validation rule attached to one named field.
type FieldSpec struct {
	Name     string
	Required bool // the key must be present in the input
	Nullable bool // an empty value, once present, is acceptable
	Kind     Kind
}

// Fields is an ordered set of field specs defining one request shape.
type Fields []FieldSpec

// FieldError is a validation failure for a single field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "field " + e.Field + " " + e.Reason
}

// Validate checks values against the field specs in declaration order and
// returns the first failure. For each field: absence fails only when
// required; a present value must pass its kind's type check; an empty value
// fails unless nullable; a non-empty value must pass the kind's extra rule.
// Empty nullable values skip the extra rule entirely.
func (fs Fields) Validate(values map[string]any, now time.Time) error {
	for _, f := range fs {
		v, ok := values[f.Name]
		if !ok || v == nil {
			if f.Required {
				return &FieldError{Field: f.Name, Reason: "is required"}
			}
			continue
		}
		if err := f.Kind.Check(v); err != nil {
			return &FieldError{Field: f.Name, Reason: err.Error()}
		}
		if f.Kind.Empty(v) {
			if !f.Nullable {
				return &FieldError{Field: f.Name, Reason: "must not be empty"}
			}
			continue
		}
		if err := f.Kind.Validate(v, now); err != nil {
			return &FieldError{Field: f.Name, Reason: err.Error()}
		}
	}
	return nil
}
