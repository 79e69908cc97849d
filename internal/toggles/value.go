package toggles

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a toggle value: a bool or a string. The zero Value is false.
type Value struct {
	b     bool
	s     string
	isStr bool
}

// Bool returns a boolean toggle value.
func Bool(b bool) Value { return Value{b: b} }

// String returns a string toggle value.
func String(s string) Value { return Value{s: s, isStr: true} }

// IsString reports whether the value holds a string.
func (v Value) IsString() bool { return v.isStr }

// Str returns the string payload ("" for booleans).
func (v Value) Str() string { return v.s }

// Truthy reports whether the value enables what it guards. Strings are
// truthy unless empty or "false".
func (v Value) Truthy() bool {
	if v.isStr {
		return v.s != "" && v.s != "false"
	}
	return v.b
}

// String formats the value for logs and reports.
func (v Value) String() string {
	if v.isStr {
		return strconv.Quote(v.s)
	}
	return strconv.FormatBool(v.b)
}

// ParseValue converts a decoded bool or string into a Value.
func ParseValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case Value:
		return x, nil
	default:
		return Value{}, fmt.Errorf("toggle value must be a boolean or string, got %T", raw)
	}
}

// ParseFlag interprets a command-line value: "true"/"false" become
// booleans, anything else a string.
func ParseFlag(s string) Value {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return String(s)
}

// Toggles maps toggle keys to values. Missing keys resolve to false.
type Toggles map[string]Value

// Enabled reports whether key is set and truthy.
func (t Toggles) Enabled(key string) bool {
	return t[key].Truthy()
}

// With returns a copy of t with overrides applied on top.
func (t Toggles) With(overrides Toggles) Toggles {
	out := make(Toggles, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Keys returns the toggle keys sorted.
func (t Toggles) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromMap validates a decoded map (config file, JSON) into Toggles.
func FromMap(m map[string]any) (Toggles, error) {
	out := make(Toggles, len(m))
	for k, raw := range m {
		v, err := ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("toggle %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
