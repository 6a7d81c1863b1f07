package managedgit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tilsley/gitmanager/pkg/httpclient"
)

// ContentContext describes a content request.
type ContentContext struct {
	Path string
	// BranchOrTag selects the revision; empty means the provider adapter's default.
	BranchOrTag string
	// Enhancer, when set, transforms the resolved content before it is returned.
	Enhancer ContentEnhancer
}

// ContentEnhancer transforms resolved content. It is an
// Enhancer[ContentContext, Content]; Pipeline and EnhancerFunc values of that
// type satisfy it.
type ContentEnhancer interface {
	Enhance(ctx context.Context, cc ContentContext, c Content) (Content, error)
}

// Content is the classified body found at a repository path. The variants
// are *TextFile and *JSONFile; absence is a nil Content.
type Content interface {
	// Path is the requested path.
	Path() string
	// Traverse returns the underlying transport result, e.g. for headers.
	Traverse() *httpclient.Result

	sealed()
}

// TextFile is textual content returned verbatim.
type TextFile struct {
	path   string
	result *httpclient.Result
	text   string
}

// NewTextFile builds a TextFile. Enhancers use it to return rewritten text.
func NewTextFile(path string, tr *httpclient.Result, text string) *TextFile {
	return &TextFile{path: path, result: tr, text: text}
}

func (f *TextFile) Path() string                 { return f.path }
func (f *TextFile) Traverse() *httpclient.Result { return f.result }
func (*TextFile) sealed()                        {}

// Text returns the file content.
func (f *TextFile) Text() string {
	return f.text
}

// JSONFile is JSON content. Its value is either decoded by the transport up
// front or parsed from the body each time Value is called.
type JSONFile struct {
	path   string
	result *httpclient.Result
	decode func() (any, error)
	lazy   bool
}

// NewJSONFile builds a JSONFile holding an already decoded value.
func NewJSONFile(path string, tr *httpclient.Result, value any) *JSONFile {
	return &JSONFile{path: path, result: tr, decode: func() (any, error) { return value, nil }}
}

func newLazyJSONFile(path string, tr *httpclient.Result) *JSONFile {
	body := tr.Body
	return &JSONFile{
		path:   path,
		result: tr,
		lazy:   true,
		decode: func() (any, error) {
			var v any
			if err := json.Unmarshal(body, &v); err != nil {
				return nil, fmt.Errorf("parse %s as json: %w", path, err)
			}
			return v, nil
		},
	}
}

func (f *JSONFile) Path() string                 { return f.path }
func (f *JSONFile) Traverse() *httpclient.Result { return f.result }
func (*JSONFile) sealed()                        {}

// Lazy reports whether Value parses the body on demand.
func (f *JSONFile) Lazy() bool {
	return f.lazy
}

// Value returns the decoded JSON. For lazily classified files a parse error
// is returned from this call.
func (f *JSONFile) Value() (any, error) {
	return f.decode()
}

// DecodeJSON converts the file's value into T.
func DecodeJSON[T any](f *JSONFile) (T, error) {
	var out T
	v, err := f.Value()
	if err != nil {
		return out, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("re-encode %s: %w", f.path, err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode %s into %T: %w", f.path, out, err)
	}
	return out, nil
}

// ResolveContent classifies a transport result:
//
//  1. pre-decoded JSON is wrapped as a JSONFile returning that value;
//  2. text at a path ending in ".json" becomes a JSONFile parsed on access;
//  3. any other text becomes a TextFile;
//  4. everything else (binary, unknown types, nil) is absent.
func ResolveContent(cc ContentContext, tr *httpclient.Result) Content {
	switch {
	case tr == nil:
		return nil
	case tr.IsJSON():
		return NewJSONFile(cc.Path, tr, tr.JSON())
	case tr.IsText() && strings.HasSuffix(cc.Path, ".json"):
		return newLazyJSONFile(cc.Path, tr)
	case tr.IsText():
		return NewTextFile(cc.Path, tr, tr.Text())
	default:
		return nil
	}
}

// IsFile reports whether c is any file variant.
func IsFile(c Content) bool {
	switch c.(type) {
	case *TextFile, *JSONFile:
		return true
	default:
		return false
	}
}

// IsTextFile reports whether c is a *TextFile.
func IsTextFile(c Content) bool {
	_, ok := c.(*TextFile)
	return ok
}

// IsJSONFile reports whether c is a *JSONFile.
func IsJSONFile(c Content) bool {
	_, ok := c.(*JSONFile)
	return ok
}

// Enrich applies cc.Enhancer to resolved content. Absent content and a nil
// enhancer pass through unchanged.
func Enrich(ctx context.Context, cc ContentContext, c Content) (Content, error) {
	if c == nil || cc.Enhancer == nil {
		return c, nil
	}
	return cc.Enhancer.Enhance(ctx, cc, c)
}
