package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind enumerates the variants a Value may hold.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindFields
)

// Value is a restricted variant: string, number, bool, or nested Fields.
type Value struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	fields  Fields
}

// Fields is an open string-keyed map of Values, used for interaction
// context and message metadata.
type Fields map[string]Value

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, boolean: b} }
func Object(f Fields) Value  { return Value{kind: KindFields, fields: f} }
func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload and whether v holds a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric payload and whether v holds a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the bool payload and whether v holds a bool.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// AsFields returns the nested map and whether v holds one.
func (v Value) AsFields() (Fields, bool) { return v.fields, v.kind == KindFields }

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.boolean == o.boolean
	case KindFields:
		return v.fields.Equal(o.fields)
	}
	return true
}

// Equal compares two field maps structurally.
func (f Fields) Equal(o Fields) bool {
	if len(f) != len(o) {
		return false
	}
	for k, v := range f {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindFields:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+v.fields[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

// ParseScalar interprets s as a bool or finite number when it parses as
// one, otherwise as a string. "inf" and "nan" stay strings since JSON
// cannot carry them.
func ParseScalar(s string) Value {
	if b, err := strconv.ParseBool(s); err == nil {
		return Bool(b)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return Number(n)
	}
	return String(s)
}

// Clone returns a deep copy of f. Nested Fields are copied too.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		if v.kind == KindFields {
			v.fields = v.fields.Clone()
		}
		out[k] = v
	}
	return out
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindFields:
		if v.fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(map[string]Value(v.fields))
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("number %q: %w", x.String(), err)
		}
		return Number(n), nil
	case float64:
		return Number(x), nil
	case map[string]any:
		f := make(Fields, len(x))
		for k, item := range x {
			val, err := fromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			f[k] = val
		}
		return Object(f), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", raw)
}
