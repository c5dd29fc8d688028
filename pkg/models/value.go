package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tells what a RawValue holds.
type Kind int

const (
	KindBlank Kind = iota
	KindText
	KindNumber
)

// RawValue is a single cell or JSON field exactly as a source delivered it.
// NaN numbers, JSON null and missing cells are all Blank.
type RawValue struct {
	kind Kind
	text string
	num  float64
}

// TextValue wraps a string cell. Empty strings stay Text so callers can tell
// "present but empty" apart from a missing column; IsBlank treats both alike.
func TextValue(s string) RawValue {
	return RawValue{kind: KindText, text: s}
}

// NumberValue wraps a numeric cell.
func NumberValue(f float64) RawValue {
	if math.IsNaN(f) {
		return RawValue{}
	}
	return RawValue{kind: KindNumber, num: f}
}

func (v RawValue) Kind() Kind {
	return v.kind
}

// IsBlank reports whether the value is missing or holds only whitespace.
func (v RawValue) IsBlank() bool {
	switch v.kind {
	case KindText:
		return strings.TrimSpace(v.text) == ""
	case KindNumber:
		return false
	default:
		return true
	}
}

// Float returns the numeric payload of a Number value.
func (v RawValue) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value the way it would appear in a cell.
func (v RawValue) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// OptionalText returns the text of the value, or nil when blank.
func (v RawValue) OptionalText() *string {
	if v.IsBlank() {
		return nil
	}
	s := v.String()
	return &s
}

// UnmarshalJSON accepts strings, numbers and null.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = RawValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '{', '[':
		return fmt.Errorf("unsupported raw value %s", data)
	case 't', 'f':
		// Booleans show up in hand-edited exports; keep them as text.
		*v = TextValue(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", data, err)
		}
		*v = NumberValue(f)
	}
	return nil
}
