package tags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindAbsent valueKind = iota
	kindString
	kindNumber
	kindBool
)

// NoneSentinel is the string the device reports for unset text fields.
const NoneSentinel = "NONE"

// Value is a loosely typed JSON scalar as reported by the device. Optional
// tag fields arrive as strings, numbers, null or not at all, so every
// optional field goes through this type and its Present predicate.
type Value struct {
	kind valueKind
	str  string
	num  float64
	b    bool
}

// Str wraps a string value.
func Str(s string) Value { return Value{kind: kindString, str: s} }

// Num wraps a numeric value.
func Num(n float64) Value { return Value{kind: kindNumber, num: n} }

// Present reports whether v carries a usable value. Absent, empty or
// whitespace strings, the "NONE" sentinel, numeric zero and false are all
// treated as no value. A legitimate zero (a weight of exactly 0) is
// indistinguishable from unset under this rule.
func (v Value) Present() bool {
	switch v.kind {
	case kindString:
		s := strings.TrimSpace(v.str)
		return s != "" && !strings.EqualFold(s, NoneSentinel)
	case kindNumber:
		return v.num != 0
	case kindBool:
		return v.b
	default:
		return false
	}
}

// IsZero reports whether the value was never set. It drives `omitzero`.
func (v Value) IsZero() bool { return v.kind == kindAbsent }

// Text renders the value the way a form field displays it.
func (v Value) Text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Float returns the numeric interpretation of v.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case kindNumber:
		return v.num, true
	case kindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Or returns v when present and fallback otherwise.
func (v Value) Or(fallback string) string {
	if v.Present() {
		return v.Text()
	}
	return fallback
}

func (v Value) String() string { return v.Text() }

// UnmarshalJSON accepts any JSON scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Value{kind: kindBool, b: data[0] == 't'}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("tag value %s: %w", data, err)
		}
		*v = Num(n)
	}
	return nil
}

// MarshalJSON writes the value back in its original JSON kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.str)
	case kindNumber:
		return json.Marshal(v.num)
	case kindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
