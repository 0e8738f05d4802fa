package jsonvalue

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Indent is the indentation used for pretty output.
const Indent = "  "

// Quote returns the JSON string encoding of s without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Marshal returns the compact JSON encoding of v.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent returns v pretty printed with a two space indent.
func MarshalIndent(v Value) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", Indent); err != nil {
		return nil, fmt.Errorf("indent JSON: %w", err)
	}
	return out.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	if _, err := KindOf(v); err != nil {
		return err
	}
	switch t := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case Number:
		buf.WriteString(string(t))
	case String:
		buf.WriteString(Quote(string(t)))
	case Array:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		for i, m := range t.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(Quote(m.Key))
			buf.WriteByte(':')
			if err := writeValue(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// FromAny converts native Go data into a Value. Map keys are sorted because
// Go maps carry no order.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		if _, err := KindOf(t); err != nil {
			return nil, err
		}
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n := Number(t.String())
		if !n.Valid() {
			return nil, fmt.Errorf("%w: malformed number %q", ErrInvalidValue, t.String())
		}
		return n, nil
	case float64:
		return floatNumber(t)
	case float32:
		return floatNumber(float64(t))
	case int, int8, int16, int32, int64:
		return Number(strconv.FormatInt(reflect.ValueOf(t).Int(), 10)), nil
	case uint, uint8, uint16, uint32, uint64:
		return Number(strconv.FormatUint(reflect.ValueOf(t).Uint(), 10)), nil
	case []any:
		arr := make(Array, 0, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject(len(keys))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, v)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, in)
	}
}

func floatNumber(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v is not representable in JSON", ErrInvalidValue, f)
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// ToAny converts v into plain Go data. Numbers become json.Number so no
// precision is lost; object order is not kept.
func ToAny(v Value) any {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Number:
		return json.Number(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToAny(item)
		}
		return out
	case *Object:
		out := make(map[string]any, t.Len())
		for _, m := range t.Members {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality. Objects compare by member order and content;
// numbers compare numerically when both literals fit a float64.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		fx, errX := strconv.ParseFloat(string(x), 64)
		fy, errY := strconv.ParseFloat(string(y), 64)
		return errX == nil && errY == nil && fx == fy
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, m := range x.Members {
			if m.Key != y.Members[i].Key || !Equal(m.Value, y.Members[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
