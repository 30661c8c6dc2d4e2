// backend/models/value.go
package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind tells how a cell was interpreted when it was read.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindTimestamp
)

// TimestampLayout is how Timestamp cells are rendered in CSV output.
const TimestampLayout = "2006-01-02 15:04:05.000000-07:00"

// decimalPattern accepts plain decimal numbers with an optional exponent.
// NaN, Inf and hex floats stay strings.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Value is a single table cell. The zero Value is the missing-value marker.
type Value struct {
	kind Kind
	text string
	ts   time.Time
}

// Missing returns the missing-value marker. It is distinct from "" and 0.
func Missing() Value {
	return Value{}
}

// String wraps text as a string cell.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Number wraps numeric text, keeping the original formatting.
func Number(s string) Value {
	return Value{kind: KindNumber, text: s}
}

// Timestamp wraps a point in time.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, ts: t, text: t.Format(TimestampLayout)}
}

// ParseCell infers the kind of a raw CSV field. Blank fields are missing.
func ParseCell(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Missing()
	}
	if decimalPattern.MatchString(trimmed) {
		return Number(trimmed)
	}
	return String(raw)
}

func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Time returns the timestamp for Timestamp cells and the zero time otherwise.
func (v Value) Time() time.Time { return v.ts }

// Float returns the numeric value of Number cells.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// Int returns the value of Number cells written as whole numbers.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.text, 10, 64)
	return i, err == nil
}

// String renders the cell the way it is written to CSV; missing cells render empty.
func (v Value) String() string {
	return v.text
}

// SQLValue returns the value handed to a database driver: nil for missing cells.
func (v Value) SQLValue() any {
	switch v.kind {
	case KindMissing:
		return nil
	case KindTimestamp:
		return v.ts
	default:
		return v.text
	}
}
