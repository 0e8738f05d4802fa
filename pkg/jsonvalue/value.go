// Package jsonvalue holds the ordered JSON data model shared by the loader,
// the tree builder and the renderers.
package jsonvalue

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidValue is returned when a value is not one of the six JSON kinds.
var ErrInvalidValue = errors.New("invalid JSON value")

// Kind identifies one of the six JSON value kinds.
type Kind int

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
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Container reports whether values of this kind hold children.
func (k Kind) Container() bool {
	return k == KindArray || k == KindObject
}

// Value is a parsed JSON value. Implementations outside this package are
// rejected by KindOf.
type Value interface {
	Kind() Kind
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number keeps the JSON number literal exactly as it appeared in the source.
type Number string

// String is a decoded JSON string.
type String string

// Array is an ordered JSON array.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Valid reports whether n is a well-formed JSON number literal.
func (n Number) Valid() bool {
	return numberPattern.MatchString(string(n))
}

// KindOf validates v and returns its kind. Nil values, nil objects, malformed
// number literals and foreign implementations fail with ErrInvalidValue.
func KindOf(v Value) (Kind, error) {
	switch t := v.(type) {
	case Null, Bool, String, Array:
		return t.Kind(), nil
	case Number:
		if !t.Valid() {
			return 0, fmt.Errorf("%w: malformed number %q", ErrInvalidValue, string(t))
		}
		return KindNumber, nil
	case *Object:
		if t == nil {
			return 0, fmt.Errorf("%w: nil object", ErrInvalidValue)
		}
		return KindObject, nil
	case nil:
		return 0, fmt.Errorf("%w: nil value", ErrInvalidValue)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
}

// Len returns the number of children of a container, zero for scalars.
func Len(v Value) int {
	switch t := v.(type) {
	case Array:
		return len(t)
	case *Object:
		if t == nil {
			return 0
		}
		return len(t.Members)
	default:
		return 0
	}
}
