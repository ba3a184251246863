package schema

import (
	"fmt"
	"time"
)

type Issue struct {
	Entity  string `json:"entity"`
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// lintInstant is the instant used to render time-dependent messages while linting.
var lintInstant = time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)

// Lint reports contradictions in a set of entity definitions. References are
// resolved against the given entities only.
func Lint(entities ...*Entity) []Issue {
	var issues []Issue
	add := func(e, f, code, format string, args ...any) {
		issues = append(issues, Issue{Entity: e, Field: f, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	known := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		known[e.Name] = struct{}{}
	}

	for _, e := range entities {
		if e.Name == "" {
			add("", "", "entity_name_empty", "entity has no name")
		}
		seen := make(map[string]struct{}, len(e.Fields))
		for _, f := range e.Fields {
			if _, dup := seen[f.Name]; dup {
				add(e.Name, f.Name, "field_duplicate", "field %q declared twice", f.Name)
			}
			seen[f.Name] = struct{}{}

			if f.Kind < String || f.Kind > Reference {
				add(e.Name, f.Name, "kind_unknown", "unknown kind %s", f.Kind)
			}
			if !f.AcceptsEmpty() && f.RequiredMessage == "" {
				add(e.Name, f.Name, "required_message_missing", "required field has no required message")
			}
			if f.TypeMessage == "" {
				add(e.Name, f.Name, "type_message_missing", "field has no type message")
			}
			for i, r := range f.Rules {
				if r.check == nil {
					add(e.Name, f.Name, "rule_check_missing", "rule #%d (%s) has no check", i, r.Name)
				}
				if r.Message(lintInstant) == "" {
					add(e.Name, f.Name, "rule_message_missing", "rule #%d (%s) has no message", i, r.Name)
				}
			}

			switch f.Kind {
			case Enum:
				if len(f.Enum) == 0 {
					add(e.Name, f.Name, "enum_empty", "enum field has no values")
				}
				if !hasRule(f, "enum") {
					add(e.Name, f.Name, "enum_rule_missing", "enum field has no membership rule")
				}
			case Reference:
				if f.Target == "" {
					add(e.Name, f.Name, "ref_target_empty", "reference field has empty target")
				} else if _, ok := known[f.Target]; !ok {
					add(e.Name, f.Name, "ref_target_unknown", "reference target %q is not a known entity", f.Target)
				}
				if !hasRule(f, "int") {
					add(e.Name, f.Name, "ref_int_rule_missing", "reference field has no integer rule")
				}
			case Integer:
				if !hasRule(f, "int") {
					add(e.Name, f.Name, "int_rule_missing", "integer field has no integer rule")
				}
			}
		}
		if e.DisplayField != "" {
			if _, ok := seen[e.DisplayField]; !ok {
				add(e.Name, e.DisplayField, "display_field_unknown", "display field %q is not declared", e.DisplayField)
			}
		}
	}
	return issues
}

func hasRule(f Field, name string) bool {
	for _, r := range f.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}
