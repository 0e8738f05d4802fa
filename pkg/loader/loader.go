// Package loader reads documents from files, stdin or URLs, decides whether
// they are JSON and parses them into an order-preserving jsonvalue tree.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/go-logr/logr"
	"github.com/goccy/go-json"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
)

var (
	// ErrEmptyInput is returned when the body holds nothing but whitespace.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotJSON is returned when the body is not a single valid JSON text.
	ErrNotJSON = errors.New("not JSON")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a loaded JSON document together with the raw bytes it came from.
type Document struct {
	Source      string
	ContentType string
	Raw         []byte
	Value       jsonvalue.Value
}

// Size returns the byte size of the raw body.
func (d *Document) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Raw)
}

// Detect reports whether a body with the given content type should be shown
// as JSON. Declared JSON types and untyped or plain text bodies qualify when
// they parse; any other declared type (HTML, images) never does.
func Detect(contentType string, body []byte) bool {
	switch mediaType(contentType) {
	case "", "application/json", "text/json", "text/plain", "application/octet-stream":
	default:
		return false
	}
	trimmed := trimBody(body)
	return len(trimmed) > 0 && json.Valid(trimmed)
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func trimBody(body []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
}

// Parse parses a single JSON text, keeping object member order and number
// literals as written.
func Parse(data []byte) (jsonvalue.Value, error) {
	trimmed := trimBody(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyInput
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON text", ErrNotJSON)
	}
	raw, dataType, _, err := jsonparser.Get(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return convert(raw, dataType)
}

func convert(raw []byte, dataType jsonparser.ValueType) (jsonvalue.Value, error) {
	switch dataType {
	case jsonparser.Null:
		return jsonvalue.Null{}, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
		}
		return jsonvalue.Bool(b), nil
	case jsonparser.Number:
		return jsonvalue.Number(string(raw)), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
		}
		return jsonvalue.String(s), nil
	case jsonparser.Array:
		return convertArray(raw)
	case jsonparser.Object:
		return convertObject(raw)
	default:
		return nil, fmt.Errorf("%w: unexpected token %q", ErrNotJSON, string(raw))
	}
}

func convertArray(raw []byte) (jsonvalue.Value, error) {
	arr := jsonvalue.Array{}
	if isEmptyContainer(raw) {
		return arr, nil
	}
	var convErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if convErr != nil {
			return
		}
		item, err := convert(value, dataType)
		if err != nil {
			convErr = err
			return
		}
		arr = append(arr, item)
	})
	if convErr != nil {
		return nil, convErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return arr, nil
}

func convertObject(raw []byte) (jsonvalue.Value, error) {
	obj := jsonvalue.NewObject(0)
	if isEmptyContainer(raw) {
		return obj, nil
	}
	err := jsonparser.ObjectEach(raw, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		item, err := convert(value, dataType)
		if err != nil {
			return err
		}
		obj.Set(string(key), item)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotJSON) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return obj, nil
}

// isEmptyContainer reports whether raw is "[]" or "{}" with optional inner whitespace.
func isEmptyContainer(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	return len(bytes.TrimSpace(raw[1:len(raw)-1])) == 0
}

// Load turns a raw body into a Document. Bodies that Detect rejects fail
// with ErrNotJSON so callers can fall back to showing the raw text.
func Load(raw []byte, contentType, source string) (*Document, error) {
	return LoadWithLogger(raw, contentType, source, logr.Discard())
}

// LoadWithLogger is like Load but records detection decisions.
func LoadWithLogger(raw []byte, contentType, source string, lgr logr.Logger) (*Document, error) {
	if len(trimBody(raw)) == 0 {
		return nil, ErrEmptyInput
	}
	if !Detect(contentType, raw) {
		lgr.V(1).Info("body not detected as JSON", "source", source, "contentType", contentType, "bytes", len(raw))
		return nil, fmt.Errorf("%s: %w", source, ErrNotJSON)
	}
	value, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	lgr.V(1).Info("parsed JSON document", "source", source, "bytes", len(raw), "kind", value.Kind().String())
	return &Document{Source: source, ContentType: contentType, Raw: raw, Value: value}, nil
}

// ReadFile reads a file without interpreting it.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// ReadAll drains r, typically stdin.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// LoadFile reads and parses a JSON file.
func LoadFile(path string) (*Document, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(raw, "", path)
}
