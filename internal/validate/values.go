package validate

import "time"

// Values is the normalized output of a successful validation: strings,
// int64 for integer and reference fields, float64 for decimals, bool and
// time.Time days. Fields without a value are present as nil.
type Values map[string]any

func (v Values) Has(name string) bool {
	x, ok := v[name]
	return ok && x != nil
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) StringPtr(name string) *string {
	if s, ok := v[name].(string); ok {
		return &s
	}
	return nil
}

func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v Values) IntPtr(name string) *int64 {
	if n, ok := v[name].(int64); ok {
		return &n
	}
	return nil
}

func (v Values) FloatPtr(name string) *float64 {
	if f, ok := v[name].(float64); ok {
		return &f
	}
	return nil
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) DatePtr(name string) *time.Time {
	if t, ok := v[name].(time.Time); ok {
		return &t
	}
	return nil
}

// Map returns the values as a plain map suitable for re-validation.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}
