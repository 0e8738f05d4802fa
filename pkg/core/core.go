// Package core ties loading, tree building and search together behind a
// small API shared by the CLI and the terminal viewer.
package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jvp/internal/formatter"
	"github.com/oakwood-commons/jvp/pkg/jsonvalue"
	"github.com/oakwood-commons/jvp/pkg/loader"
	"github.com/oakwood-commons/jvp/pkg/search"
	"github.com/oakwood-commons/jvp/pkg/tree"
)

// StdinSource is the source name that reads standard input.
const StdinSource = "-"

// Fetcher retrieves remote documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, contentType string, err error)
}

type httpFetcher struct {
	client *http.Client
}

func (f httpFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	return loader.Fetch(ctx, f.client, url)
}

// Engine opens documents into viewer sessions.
type Engine struct {
	Logger  logr.Logger
	Fetcher Fetcher
	Stdin   io.Reader
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for load and reload diagnostics.
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) {
		e.Logger = lgr
	}
}

// WithHTTPClient fetches URLs with client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		e.Fetcher = httpFetcher{client: client}
	}
}

// WithFetcher replaces URL fetching entirely.
func WithFetcher(f Fetcher) Option {
	return func(e *Engine) {
		e.Fetcher = f
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(e *Engine) {
		e.Stdin = r
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) *Engine {
	engine := &Engine{
		Logger:  logr.Discard(),
		Fetcher: httpFetcher{client: http.DefaultClient},
		Stdin:   os.Stdin,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Read returns the raw bytes of source, which is a file path, an http(s)
// URL or "-" for stdin, along with any declared content type.
func (e *Engine) Read(ctx context.Context, source string) ([]byte, string, error) {
	switch {
	case source == StdinSource:
		raw, err := loader.ReadAll(e.Stdin)
		return raw, "", err
	case loader.IsURL(source):
		e.Logger.V(1).Info("fetching document", "url", source)
		return e.Fetcher.Fetch(ctx, source)
	default:
		raw, err := loader.ReadFile(source)
		return raw, "", err
	}
}

// Open reads and parses source into a session.
func (e *Engine) Open(ctx context.Context, source string) (*Session, error) {
	raw, contentType, err := e.Read(ctx, source)
	if err != nil {
		return nil, err
	}
	return e.OpenBytes(raw, contentType, source)
}

// OpenBytes parses an already read body. Bodies that are not JSON fail
// with loader.ErrNotJSON.
func (e *Engine) OpenBytes(raw []byte, contentType, source string) (*Session, error) {
	doc, err := loader.LoadWithLogger(raw, contentType, source, e.Logger)
	if err != nil {
		return nil, err
	}
	s := &Session{Source: source, ContentType: contentType, lgr: e.Logger}
	if err := s.install(doc.Raw, doc.Value); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenValue wraps a value produced without the parser, for example by
// jsonvalue.FromAny.
func (e *Engine) OpenValue(v jsonvalue.Value, source string) (*Session, error) {
	raw, err := jsonvalue.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &Session{Source: source, ContentType: "application/json", lgr: e.Logger}
	if err := s.install(raw, v); err != nil {
		return nil, err
	}
	return s, nil
}

// Session is one viewed document: its raw text, value and node tree. All
// methods must be called from a single goroutine.
type Session struct {
	Source      string
	ContentType string
	Raw         []byte
	Value       jsonvalue.Value
	Root        *tree.Node
	Query       string

	index *tree.Index
	lgr   logr.Logger
}

// install builds the tree for value and swaps it in only on success.
func (s *Session) install(raw []byte, value jsonvalue.Value) error {
	root, err := tree.BuildRoot(value)
	if err != nil {
		return fmt.Errorf("build tree for %s: %w", s.Source, err)
	}
	idx, err := tree.NewIndex(root)
	if err != nil {
		// Addresses come from a deterministic rule; keep going with the
		// first node per address.
		s.lgr.Error(err, "address collision", "source", s.Source)
	}
	if s.Root != nil {
		tree.CarryState(s.Root, root)
	}
	s.Raw, s.Value, s.Root, s.index = raw, value, root, idx
	if s.Query != "" {
		search.Search(s.Root, s.Query)
	}
	return nil
}

// Reload replaces the document with raw. Collapse state carries over by
// address and the active query is applied again. On error the current tree
// is kept untouched.
func (s *Session) Reload(raw []byte) error {
	value, err := loader.Parse(raw)
	if err != nil {
		s.lgr.Info("reload skipped", "source", s.Source, "error", err.Error())
		return fmt.Errorf("reload %s: %w", s.Source, err)
	}
	if err := s.install(raw, value); err != nil {
		return err
	}
	s.lgr.V(1).Info("reloaded document", "source", s.Source, "bytes", len(raw))
	return nil
}

// SizeLabel is the human readable size of the raw body.
func (s *Session) SizeLabel() string {
	return formatter.FormatSize(len(s.Raw))
}

// Search trims query, highlights matches and returns their count.
func (s *Session) Search(query string) int {
	s.Query = strings.TrimSpace(query)
	return search.Search(s.Root, s.Query)
}

// Matches returns the nodes matched by the active query.
func (s *Session) Matches() []*tree.Node {
	return search.Matches(s.Root)
}

// Find returns the node at path.
func (s *Session) Find(path string) (*tree.Node, bool) {
	if s.index == nil {
		return nil, false
	}
	return s.index.Find(path)
}

// Toggle flips the container at path.
func (s *Session) Toggle(path string) error {
	n, ok := s.Find(path)
	if !ok {
		return fmt.Errorf("no node at %s", path)
	}
	tree.Toggle(n)
	return nil
}

// ExpandAll unfolds every container.
func (s *Session) ExpandAll() { tree.ExpandAll(s.Root) }

// CollapseAll folds every container, the root included.
func (s *Session) CollapseAll() { tree.CollapseAll(s.Root) }

// Pretty is the two-space indented serialization of the whole document.
func (s *Session) Pretty() (string, error) {
	out, err := jsonvalue.MarshalIndent(s.Value)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CopyKind selects a clipboard payload.
type CopyKind int

const (
	// CopyPath copies the node's address.
	CopyPath CopyKind = iota
	// CopyValue copies the node's value.
	CopyValue
	// CopyAll copies the whole document, pretty printed.
	CopyAll
)

// CopyPayload returns the text a copy action puts on the clipboard.
func (s *Session) CopyPayload(path string, kind CopyKind) (string, error) {
	if kind == CopyAll {
		return s.Pretty()
	}
	n, ok := s.Find(path)
	if !ok {
		return "", fmt.Errorf("no node at %s", path)
	}
	if kind == CopyPath {
		return n.Path, nil
	}
	return n.CopyValue()
}
