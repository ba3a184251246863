package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
)

var (
	errUnknownKind = errors.New("unknown field kind")

	errNotString = errors.New("must be string")
	errNotNumber = errors.New("must be number")
	errNotBool   = errors.New("must be boolean")
	errNotDate   = errors.New("must be date")
	errRange     = errors.New("out of int64 range")
)

// accepted date layouts; plain days are read in the evaluation location
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

func coerce(f schema.Field, v any, now time.Time) (any, error) {
	switch f.Kind {
	case schema.String:
		s, err := toStringStrict(v)
		if err != nil {
			return nil, err
		}
		if f.Trim {
			s = strings.TrimSpace(s)
		}
		if f.Strip != "" {
			s = strings.Map(func(r rune) rune {
				if strings.ContainsRune(f.Strip, r) {
					return -1
				}
				return r
			}, s)
		}
		if s == "" && f.Optional {
			return nil, nil
		}
		return s, nil
	case schema.Enum:
		return toStringStrict(v)
	case schema.Integer, schema.Reference:
		x, err := toFloatStrict(v)
		if err != nil {
			return nil, err
		}
		if x >= 1<<63 || x < -(1<<63) {
			return nil, errRange
		}
		return x, nil
	case schema.Decimal:
		return toFloatStrict(v)
	case schema.Boolean:
		return toBoolStrict(v)
	case schema.Date:
		return toDay(v, now.Location())
	default:
		return nil, fmt.Errorf("%w %s", errUnknownKind, f.Kind)
	}
}

func toStringStrict(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errNotString
	}
	return s, nil
}

// toFloatStrict accepts JSON numbers, numeric strings and the integer types
// produced by a previous validation pass.
func toFloatStrict(v any) (float64, error) {
	var x float64
	switch t := v.(type) {
	case float64:
		x = t
	case float32:
		x = float64(t)
	case int:
		x = float64(t)
	case int32:
		x = float64(t)
	case int64:
		x = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		x = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, errNotNumber
		}
		x = f
	default:
		return 0, errNotNumber
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, errNotNumber
	}
	return x, nil
}

func toBoolStrict(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errNotBool
	}
	return b, nil
}

// toDay normalizes to the start of the calendar day in loc.
func toDay(v any, loc *time.Location) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return schema.StartOfDay(t.In(loc)), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if d, err := time.ParseInLocation(layout, s, loc); err == nil {
				return schema.StartOfDay(d.In(loc)), nil
			}
		}
	}
	return time.Time{}, errNotDate
}
