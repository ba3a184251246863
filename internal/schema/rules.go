package schema

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// formats is only used for single-value format tags; validator.Validate is
// safe for concurrent use.
var formats = validator.New()

func static(msg string) func(time.Time) string {
	return func(time.Time) string { return msg }
}

// NewRule builds a rule from an arbitrary predicate with a static message.
func NewRule(name string, msg string, ok func(v any) bool) Rule {
	return Rule{
		Name:    name,
		message: static(msg),
		check:   func(v any, _ time.Time) bool { return ok(v) },
	}
}

func stringRule(name string, param any, msg string, ok func(s string) bool) Rule {
	return Rule{
		Name:    name,
		Param:   param,
		message: static(msg),
		check: func(v any, _ time.Time) bool {
			s, isStr := v.(string)
			return isStr && ok(s)
		},
	}
}

func MinLen(n int, msg string) Rule {
	return stringRule("min_length", n, msg, func(s string) bool { return utf8.RuneCountInString(s) >= n })
}

func MaxLen(n int, msg string) Rule {
	return stringRule("max_length", n, msg, func(s string) bool { return utf8.RuneCountInString(s) <= n })
}

// MaxBytes bounds the UTF-8 encoded size, not the rune count.
func MaxBytes(n int, msg string) Rule {
	return stringRule("max_bytes", n, msg, func(s string) bool { return len(s) <= n })
}

func ExactLen(n int, msg string) Rule {
	return stringRule("length", n, msg, func(s string) bool { return utf8.RuneCountInString(s) == n })
}

func Contains(sub string, msg string) Rule {
	return stringRule("includes", sub, msg, func(s string) bool { return strings.Contains(s, sub) })
}

func Pattern(re *regexp.Regexp, msg string) Rule {
	return stringRule("pattern", re.String(), msg, re.MatchString)
}

func Email(msg string) Rule {
	return stringRule("email", nil, msg, func(s string) bool { return formats.Var(s, "email") == nil })
}

// CPF checks the Brazilian taxpayer id check digits.
func CPF(msg string) Rule {
	return stringRule("cpf", nil, msg, ValidCPF)
}

// OneOf checks membership in a fixed set; comparison is case sensitive.
func OneOf(values []string, msg string) Rule {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return stringRule("enum", append([]string(nil), values...), msg, func(s string) bool {
		_, ok := set[s]
		return ok
	})
}

func numberRule(name string, param any, msg func(time.Time) string, ok func(x float64, now time.Time) bool) Rule {
	return Rule{
		Name:    name,
		Param:   param,
		message: msg,
		check: func(v any, now time.Time) bool {
			x, isNum := v.(float64)
			return isNum && ok(x, now)
		},
	}
}

func Integral(msg string) Rule {
	return numberRule("int", nil, static(msg), func(x float64, _ time.Time) bool { return x == math.Trunc(x) })
}

func Min(bound float64, msg string) Rule {
	return numberRule("min", bound, static(msg), func(x float64, _ time.Time) bool { return x >= bound })
}

func Max(bound float64, msg string) Rule {
	return numberRule("max", bound, static(msg), func(x float64, _ time.Time) bool { return x <= bound })
}

// MaxCurrentYear bounds a year by the calendar year of the evaluation instant.
func MaxCurrentYear(msg func(year int) string) Rule {
	return numberRule("max_current_year", nil,
		func(now time.Time) string { return msg(now.Year()) },
		func(x float64, now time.Time) bool { return x <= float64(now.Year()) })
}

// DayBound computes a calendar day relative to the evaluation instant.
type DayBound func(now time.Time) time.Time

// StartOfDay drops the time of day, keeping t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FixedDay is a calendar day independent of the current date.
func FixedDay(year int, month time.Month, day int) DayBound {
	return func(now time.Time) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	}
}

// Today is the calendar day of the evaluation instant.
func Today() DayBound {
	return StartOfDay
}

// YearsAgo is today minus n years.
func YearsAgo(n int) DayBound {
	return func(now time.Time) time.Time {
		return StartOfDay(now).AddDate(-n, 0, 0)
	}
}

func dateRule(name string, msg string, ok func(d, bound time.Time) bool, bound DayBound) Rule {
	return Rule{
		Name:    name,
		message: static(msg),
		check: func(v any, now time.Time) bool {
			d, isDate := v.(time.Time)
			return isDate && ok(d, bound(now))
		},
	}
}

// NotBefore rejects days earlier than bound; the bound itself is accepted.
func NotBefore(bound DayBound, msg string) Rule {
	return dateRule("not_before", msg, func(d, b time.Time) bool { return !d.Before(b) }, bound)
}

// NotAfter rejects days later than bound; the bound itself is accepted.
func NotAfter(bound DayBound, msg string) Rule {
	return dateRule("not_after", msg, func(d, b time.Time) bool { return !d.After(b) }, bound)
}
