package tree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

// RootPath is the address of the root node.
const RootPath = "$"

// ErrInvalidPath is returned for strings that are not addresses.
var ErrInvalidPath = errors.New("invalid path")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether key can be addressed with dot notation.
func IsIdentifier(key string) bool {
	return identifierPattern.MatchString(key)
}

// Segment is one step of a parsed address.
// Path example: $.regions.asia["postal-code"][0]
type Segment interface {
	segment()
}

// Field is a dotted identifier step: .name
type Field struct {
	Name string
}

// QuotedKey is a bracketed JSON string step: ["full name"]
type QuotedKey struct {
	Name string
}

// ArrayIndex is a bracketed index step: [3]
type ArrayIndex struct {
	Index int
}

func (Field) segment()      {}
func (QuotedKey) segment()  {}
func (ArrayIndex) segment() {}

// Name returns the object key a segment selects, if any.
func Name(s Segment) (string, bool) {
	switch v := s.(type) {
	case Field:
		return v.Name, true
	case QuotedKey:
		return v.Name, true
	default:
		return "", false
	}
}

// ChildPath returns the address of a child reached from parent through key.
func ChildPath(parent string, key Key) string {
	switch key.kind {
	case keyIndex:
		return parent + "[" + strconv.Itoa(key.index) + "]"
	case keyName:
		if IsIdentifier(key.name) {
			return parent + "." + key.name
		}
		return parent + "[" + jsonvalue.Quote(key.name) + "]"
	default:
		return parent
	}
}

// ParsePath parses an address into its segments. The address must start
// with "$"; bracketed keys must be complete JSON strings.
func ParsePath(input string) ([]Segment, error) {
	if !strings.HasPrefix(input, RootPath) {
		return nil, fmt.Errorf("%w %q: must start with %q", ErrInvalidPath, input, RootPath)
	}
	var segments []Segment
	i := len(RootPath)
	for i < len(input) {
		switch input[i] {
		case '.':
			j := i + 1
			for j < len(input) && input[j] != '.' && input[j] != '[' {
				j++
			}
			name := input[i+1 : j]
			if !IsIdentifier(name) {
				return nil, fmt.Errorf("%w %q: %q is not an identifier at offset %d", ErrInvalidPath, input, name, i)
			}
			segments = append(segments, Field{Name: name})
			i = j
		case '[':
			seg, next, err := parseBracket(input, i)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			i = next
		default:
			return nil, fmt.Errorf("%w %q: unexpected %q at offset %d", ErrInvalidPath, input, input[i], i)
		}
	}
	return segments, nil
}

// parseBracket parses the segment opening at input[start] == '[' and returns
// the offset just past its closing bracket.
func parseBracket(input string, start int) (Segment, int, error) {
	i := start + 1
	if i < len(input) && input[i] == '"' {
		end := i + 1
		for end < len(input) && input[end] != '"' {
			if input[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(input) || end+1 >= len(input) || input[end+1] != ']' {
			return nil, 0, fmt.Errorf("%w %q: unterminated key at offset %d", ErrInvalidPath, input, start)
		}
		var name string
		if err := json.Unmarshal([]byte(input[i:end+1]), &name); err != nil {
			return nil, 0, fmt.Errorf("%w %q: bad key at offset %d: %w", ErrInvalidPath, input, start, err)
		}
		return QuotedKey{Name: name}, end + 2, nil
	}
	end := strings.IndexByte(input[i:], ']')
	if end == -1 {
		return nil, 0, fmt.Errorf("%w %q: unterminated index at offset %d", ErrInvalidPath, input, start)
	}
	digits := input[i : i+end]
	if digits == "" || (len(digits) > 1 && digits[0] == '0') || strings.Trim(digits, "0123456789") != "" {
		return nil, 0, fmt.Errorf("%w %q: bad index %q", ErrInvalidPath, input, digits)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil, 0, fmt.Errorf("%w %q: bad index %q: %w", ErrInvalidPath, input, digits, err)
	}
	return ArrayIndex{Index: n}, i + end + 1, nil
}

// FormatPath rebuilds the canonical address for segments.
func FormatPath(segments []Segment) string {
	path := RootPath
	for _, s := range segments {
		switch v := s.(type) {
		case Field:
			path = ChildPath(path, NameKey(v.Name))
		case QuotedKey:
			path = ChildPath(path, NameKey(v.Name))
		case ArrayIndex:
			path = ChildPath(path, IndexKey(v.Index))
		}
	}
	return path
}

// Canonical parses and reformats an address so equivalent spellings such as
// $["name"] and $.name compare equal.
func Canonical(path string) (string, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	return FormatPath(segments), nil
}
