// Package schema describes entity fields, their coercion kind and the ordered
// constraint rules evaluated against them.
//
// An Entity is built once and never mutated afterwards, so the same value can be
// shared by every request goroutine.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a raw JSON value is coerced before rules run.
type Kind int

const (
	String Kind = iota + 1
	Integer
	Decimal
	Boolean
	Date
	Enum
	Reference
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Enum:
		return "enum"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rule is one constraint of a field. Check receives the coerced value
// (string, float64, bool or time.Time) and the evaluation instant.
type Rule struct {
	Name  string
	Param any

	message func(now time.Time) string
	check   func(v any, now time.Time) bool
}

// Message renders the rule message for the given instant.
func (r Rule) Message(now time.Time) string {
	if r.message == nil {
		return ""
	}
	return r.message(now)
}

// Violation returns the rule message and true when v breaks the rule.
func (r Rule) Violation(v any, now time.Time) (string, bool) {
	if r.check(v, now) {
		return "", false
	}
	return r.Message(now), true
}

// Field describes one entity attribute.
type Field struct {
	Name string
	Kind Kind

	// Optional fields accept absent, null and "" as "no value".
	// Reference fields always behave as optional.
	Optional bool
	// Trim removes surrounding white space from strings.
	Trim bool
	// Strip lists placeholder characters (input-mask leftovers) removed from strings.
	Strip string
	// Enum holds the allowed values of an Enum field, in display order.
	Enum []string
	// Target names the referenced entity of a Reference field.
	Target string

	RequiredMessage string
	TypeMessage     string
	Rules           []Rule
}

// AcceptsEmpty reports whether absent/null/"" input maps to "no value".
func (f Field) AcceptsEmpty() bool {
	return f.Optional || f.Kind == Reference
}

// Entity is the ordered field set of one resource.
type Entity struct {
	Name         string
	DisplayField string
	Fields       []Field
}

// Describe returns the definition of the named field.
func (e *Entity) Describe(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// WithOptional derives a copy of e in which the named fields are optional.
// The receiver is left untouched.
func (e *Entity) WithOptional(names ...string) *Entity {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	cp := &Entity{Name: e.Name, DisplayField: e.DisplayField, Fields: make([]Field, len(e.Fields))}
	copy(cp.Fields, e.Fields)
	for i := range cp.Fields {
		if _, ok := set[cp.Fields[i].Name]; ok {
			cp.Fields[i].Optional = true
		}
	}
	return cp
}

// Registry indexes entities by name.
type Registry map[string]*Entity

func NewRegistry(entities ...*Entity) Registry {
	r := make(Registry, len(entities))
	for _, e := range entities {
		r[e.Name] = e
	}
	return r
}

// Lookup resolves an entity case-insensitively, also accepting the plural
// collection name used in routes ("cars" → "Car").
func (r Registry) Lookup(name string) (*Entity, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	if e, ok := r[name]; ok {
		return e, true
	}
	nl := strings.ToLower(name)
	for key, e := range r {
		kl := strings.ToLower(key)
		if kl == nl || kl+"s" == nl {
			return e, true
		}
	}
	return nil, false
}
