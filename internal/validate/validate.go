// Package validate checks raw JSON-decoded input against a schema.Entity.
//
// Validation is pure: the caller injects the evaluation instant, the input
// map is never modified and no I/O happens here.
package validate

import (
	"errors"
	"fmt"
	"time"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
)

// Result is either valid normalized Data or a non-empty set of Errors.
type Result struct {
	Data   Values
	Errors FieldErrors
}

func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Validate walks the entity fields in order. Each field is coerced, then its
// rules run in order and the first failing rule supplies the field message.
// A failing field never stops the others from being checked.
//
// The returned error is reserved for faults (unknown kind, panicking rule);
// a validation failure is reported through Result.Errors.
func Validate(e *schema.Entity, in map[string]any, now time.Time) (res Result, err error) {
	if e == nil {
		return Result{}, errors.New("validate: nil entity")
	}
	defer func() {
		if p := recover(); p != nil {
			res = Result{}
			err = fmt.Errorf("validate %s: rule panicked: %v", e.Name, p)
		}
	}()

	data := make(Values, len(e.Fields))
	var errs FieldErrors
	for _, f := range e.Fields {
		raw, present := in[f.Name]
		v, msg, ferr := checkField(f, raw, present, now)
		if ferr != nil {
			return Result{}, fmt.Errorf("validate %s.%s: %w", e.Name, f.Name, ferr)
		}
		if msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		data[f.Name] = v
	}
	if len(errs) > 0 {
		return Result{Errors: errs}, nil
	}
	return Result{Data: data}, nil
}

func checkField(f schema.Field, raw any, present bool, now time.Time) (any, string, error) {
	if !present || raw == nil {
		if f.AcceptsEmpty() {
			return nil, "", nil
		}
		return nil, f.RequiredMessage, nil
	}
	if s, ok := raw.(string); ok && s == "" && f.AcceptsEmpty() {
		return nil, "", nil
	}

	v, err := coerce(f, raw, now)
	if errors.Is(err, errUnknownKind) {
		return nil, "", err
	}
	if err != nil {
		return nil, f.TypeMessage, nil
	}
	if v == nil {
		// optional string that became empty after trimming
		return nil, "", nil
	}

	for _, r := range f.Rules {
		if msg, failed := r.Violation(v, now); failed {
			return nil, msg, nil
		}
	}
	return finish(f, v), "", nil
}

// finish converts a checked value to its stored representation.
func finish(f schema.Field, v any) any {
	switch f.Kind {
	case schema.Integer, schema.Reference:
		if x, ok := v.(float64); ok {
			return int64(x)
		}
	}
	return v
}
