package validate

import (
	"bytes"
	"encoding/json"
)

type FieldError struct {
	Field   string
	Message string
}

// FieldErrors holds at most one message per field, in schema order.
type FieldErrors []FieldError

func (fe FieldErrors) Get(field string) (string, bool) {
	for _, e := range fe {
		if e.Field == field {
			return e.Message, true
		}
	}
	return "", false
}

func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Message
	}
	return out
}

// Issue is one entry of the path/message issue list.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

func (fe FieldErrors) Issues() []Issue {
	out := make([]Issue, 0, len(fe))
	for _, e := range fe {
		out = append(out, Issue{Path: []string{e.Field}, Message: e.Message})
	}
	return out
}

// MarshalJSON renders {"field": "message", ...} keeping schema order.
func (fe FieldErrors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fe {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
