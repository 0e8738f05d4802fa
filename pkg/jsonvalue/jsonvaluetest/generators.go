// Package jsonvaluetest provides rapid generators for property tests over
// jsonvalue trees.
package jsonvaluetest

import (
	"strconv"

	"pgregory.net/rapid"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

// Key draws object keys, mixing identifier-like names with keys that need
// bracket addressing.
func Key() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[A-Za-z_$][A-Za-z0-9_$]{0,6}`),
		rapid.StringMatching(`[0-9][A-Za-z0-9]{0,4}`),
		rapid.StringMatching(`[a-z]{1,3}[ .\-"\\/\[\]]{1,2}[a-z]{0,3}`),
		rapid.StringMatching(`[é中✓ ]{1,3}`),
		rapid.Just(""),
	)
}

// Text draws string payloads, including URLs and characters that need escaping.
func Text() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[a-zA-Z0-9 _$.\-"\\/<>&é中\n\t]{0,12}`),
		rapid.StringMatching(`https?://[a-z]{1,8}\.(com|io)(/[a-z0-9]{0,5})?`),
	)
}

// Number draws valid JSON number literals.
func Number() *rapid.Generator[jsonvalue.Number] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Number {
		whole := rapid.IntRange(-100000, 100000).Draw(t, "whole")
		lit := strconv.Itoa(whole)
		if rapid.Bool().Draw(t, "fraction") {
			lit += "." + strconv.Itoa(rapid.IntRange(0, 999).Draw(t, "frac"))
		}
		return jsonvalue.Number(lit)
	})
}

// Scalar draws a leaf value.
func Scalar() *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		switch rapid.IntRange(0, 3).Draw(t, "scalarKind") {
		case 0:
			return jsonvalue.Null{}
		case 1:
			return jsonvalue.Bool(rapid.Bool().Draw(t, "bool"))
		case 2:
			return Number().Draw(t, "number")
		default:
			return jsonvalue.String(Text().Draw(t, "string"))
		}
	})
}

// Value draws a JSON value nested at most maxDepth containers deep.
func Value(maxDepth int) *rapid.Generator[jsonvalue.Value] {
	return rapid.Custom(func(t *rapid.T) jsonvalue.Value {
		return draw(t, maxDepth)
	})
}

func draw(t *rapid.T, depth int) jsonvalue.Value {
	choice := 0
	if depth > 0 {
		choice = rapid.IntRange(0, 2).Draw(t, "shape")
	}
	switch choice {
	case 1:
		n := rapid.IntRange(0, 13).Draw(t, "arrayLen")
		arr := make(jsonvalue.Array, 0, n)
		for i := 0; i < n; i++ {
			arr = append(arr, draw(t, depth-1))
		}
		return arr
	case 2:
		n := rapid.IntRange(0, 13).Draw(t, "objectLen")
		obj := jsonvalue.NewObject(n)
		for i := 0; i < n; i++ {
			obj.Set(Key().Draw(t, "key"), draw(t, depth-1))
		}
		return obj
	default:
		return Scalar().Draw(t, "scalar")
	}
}
