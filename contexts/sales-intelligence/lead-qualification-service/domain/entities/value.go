package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON-shaped event payload. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	items   []Value
	fields  map[string]Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

func String(s string) Value { return Value{kind: KindString, text: s} }

func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

func Object(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return Value{kind: KindObject, fields: copied}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Keys returns object keys in ascending order, or nil for non-objects.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.fields))
	for key := range v.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Field looks up a key on an object. Non-objects never have fields.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	field, ok := v.fields[key]
	return field, ok
}

// Lookup walks nested objects along path.
func (v Value) Lookup(path ...string) (Value, bool) {
	current := v
	for _, key := range path {
		next, ok := current.Field(key)
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return current, len(path) > 0
}

// ParseValue decodes raw JSON. Empty input decodes to null.
func ParseValue(raw []byte) (Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return Value{}, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("unexpected trailing data after JSON value")
	}
	return FromAny(decoded)
}

// FromAny converts the output of encoding/json decoding into a Value.
func FromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case json.Number:
		n, err := typed.Float64()
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	case float64:
		return Number(typed), nil
	case int:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case []any:
		items := make([]Value, 0, len(typed))
		for _, item := range typed {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		fields := make(map[string]Value, len(typed))
		for key, item := range typed {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[key] = converted
		}
		return Value{kind: KindObject, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("unsupported payload type %T", raw)
	}
}

// ToAny converts the Value back to plain Go values.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.ToAny())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for key, item := range v.fields {
			out[key] = item.ToAny()
		}
		return out
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(raw []byte) error {
	parsed, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return fmt.Errorf("payload number %v is not representable in JSON", v.number)
		}
		buf.WriteString(strconv.FormatFloat(v.number, 'f', -1, 64))
	case KindString:
		encoded, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(encoded)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			if err := v.fields[key].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown payload kind %d", v.kind)
	}
	return nil
}
