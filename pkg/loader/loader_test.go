package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
	"github.com/oakwood-commons/jvp/pkg/jsonvalue/jsonvaluetest"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple object", input: `{"key": "value"}`, want: `{"key":"value"}`},
		{name: "nested object", input: `{"a": {"b": {"c": 1}}}`, want: `{"a":{"b":{"c":1}}}`},
		{name: "array", input: `[1, 2, 3]`, want: `[1,2,3]`},
		{name: "empty object", input: `{}`, want: `{}`},
		{name: "empty array", input: `[ ]`, want: `[]`},
		{name: "nested empties", input: `{"a":[],"b":{},"c":[[],{}]}`, want: `{"a":[],"b":{},"c":[[],{}]}`},
		{name: "string", input: `"hello"`, want: `"hello"`},
		{name: "number literal kept", input: `1.50`, want: `1.50`},
		{name: "true", input: `true`, want: `true`},
		{name: "false", input: `false`, want: `false`},
		{name: "null", input: `null`, want: `null`},
		{name: "order preserved", input: `{"z":1,"a":2,"m":3}`, want: `{"z":1,"a":2,"m":3}`},
		{name: "duplicate keys keep first position", input: `{"a":1,"b":2,"a":3}`, want: `{"a":3,"b":2}`},
		{name: "escaped key", input: `{"full name":"x","q\"k":true}`, want: `{"full name":"x","q\"k":true}`},
		{name: "unicode escape", input: `{"emoji": "❤"}`, want: `{"emoji":"❤"}`},
		{name: "surrounding whitespace and BOM", input: "\xEF\xBB\xBF \n{\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			out, err := jsonvalue.Marshal(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "whitespace", input: " \n\t", wantErr: ErrEmptyInput},
		{name: "plain text", input: "hello world", wantErr: ErrNotJSON},
		{name: "html", input: "<html></html>", wantErr: ErrNotJSON},
		{name: "incomplete", input: `{"key":`, wantErr: ErrNotJSON},
		{name: "trailing comma", input: `{"a": 1,}`, wantErr: ErrNotJSON},
		{name: "single quotes", input: `{'a': 1}`, wantErr: ErrNotJSON},
		{name: "two documents", input: `{} {}`, wantErr: ErrNotJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseLargeObject(t *testing.T) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i := 0; i < 1000; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`"key` + strconv.Itoa(i) + `":"value` + strconv.Itoa(i) + `"`)
	}
	sb.WriteByte('}')

	v, err := Parse([]byte(sb.String()))
	require.NoError(t, err)
	obj, ok := v.(*jsonvalue.Object)
	require.True(t, ok)
	assert.Equal(t, 1000, obj.Len())
	assert.Equal(t, "key0", obj.Members[0].Key)
	assert.Equal(t, "key999", obj.Members[999].Key)
}

func TestParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := jsonvaluetest.Value(3).Draw(t, "value")
		compact, err := jsonvalue.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		got, err := Parse(compact)
		if err != nil {
			t.Fatalf("Parse(%s): %v", compact, err)
		}
		if !jsonvalue.Equal(v, got) {
			t.Fatalf("round trip mismatch for %s", compact)
		}
		pretty, err := jsonvalue.MarshalIndent(v)
		if err != nil {
			t.Fatalf("MarshalIndent: %v", err)
		}
		again, err := Parse(pretty)
		if err != nil {
			t.Fatalf("Parse(pretty): %v", err)
		}
		if !jsonvalue.Equal(v, again) {
			t.Fatalf("pretty round trip mismatch for %s", pretty)
		}
	})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        bool
	}{
		{name: "json type", contentType: "application/json; charset=utf-8", body: `{"a":1}`, want: true},
		{name: "text json type", contentType: "text/json", body: `[1]`, want: true},
		{name: "json type but invalid body", contentType: "application/json", body: `{oops`, want: false},
		{name: "untyped valid", contentType: "", body: `{"a":1}`, want: true},
		{name: "plain text valid", contentType: "text/plain", body: `"just a string"`, want: true},
		{name: "plain text prose", contentType: "text/plain", body: `hello`, want: false},
		{name: "html never", contentType: "text/html", body: `{"a":1}`, want: false},
		{name: "empty", contentType: "application/json", body: "  ", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.contentType, []byte(tt.body)))
		})
	}
}

func TestLoad(t *testing.T) {
	doc, err := Load([]byte(`{"name":"Ann"}`), "application/json", "inline")
	require.NoError(t, err)
	assert.Equal(t, "inline", doc.Source)
	assert.Equal(t, 14, doc.Size())
	assert.Equal(t, jsonvalue.KindObject, doc.Value.Kind())

	_, err = Load([]byte(`<p>hi</p>`), "text/html", "page")
	require.ErrorIs(t, err, ErrNotJSON)

	_, err = Load(nil, "", "empty")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":[true,null]}`), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	body, ct, err := Fetch(context.Background(), srv.Client(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "application/json", ct)

	_, _, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://api.github.com/repos"))
	assert.True(t, IsURL("HTTP://example.com"))
	assert.False(t, IsURL("data.json"))
	assert.False(t, IsURL("ftp://example.com"))
}
