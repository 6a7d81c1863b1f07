package httpclient

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the content classification of a traversal result.
type Kind int

const (
	// KindUnknown is anything that is neither JSON nor text, e.g. images or archives.
	KindUnknown Kind = iota
	// KindJSON means the body was decoded as JSON by the transport.
	KindJSON
	// KindText is a textual body other than HTML.
	KindText
	// KindHTML is an HTML document.
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Result is the raw outcome of a successful traversal.
type Result struct {
	URL         string
	StatusCode  int
	Header      http.Header
	ContentType string // media type without parameters
	Body        []byte
	Kind        Kind

	json any
}

// IsJSON reports whether the transport already decoded the body as JSON.
func (r *Result) IsJSON() bool {
	return r != nil && r.Kind == KindJSON
}

// IsText reports whether the body is textual. HTML counts as text.
func (r *Result) IsText() bool {
	return r != nil && (r.Kind == KindText || r.Kind == KindHTML)
}

// IsHTML reports whether the body is an HTML document.
func (r *Result) IsHTML() bool {
	return r != nil && r.Kind == KindHTML
}

// JSON returns the value decoded by the transport. It is nil unless IsJSON.
func (r *Result) JSON() any {
	return r.json
}

// Text returns the body as a string.
func (r *Result) Text() string {
	return string(r.Body)
}

// NewJSONResult builds a result that carries an already decoded JSON value.
func NewJSONResult(url string, body []byte, value any) *Result {
	return &Result{
		URL:         url,
		StatusCode:  http.StatusOK,
		Header:      http.Header{"Content-Type": []string{"application/json"}},
		ContentType: "application/json",
		Body:        body,
		Kind:        KindJSON,
		json:        value,
	}
}

// NewTextResult builds a plain-text result.
func NewTextResult(url, text string) *Result {
	return &Result{
		URL:         url,
		StatusCode:  http.StatusOK,
		Header:      http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}},
		ContentType: "text/plain",
		Body:        []byte(text),
		Kind:        KindText,
	}
}

// classify fills in ContentType, Kind and the decoded JSON value.
func classify(r *Result) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			mediaType = mt
		}
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = sniff(r.Body)
	}
	r.ContentType = mediaType

	switch {
	case isJSONMediaType(mediaType):
		var v any
		if err := json.Unmarshal(r.Body, &v); err != nil {
			// Mislabelled body; keep it reachable as text.
			r.Kind = KindText
			return
		}
		r.Kind = KindJSON
		r.json = v
	case mediaType == "text/html":
		r.Kind = KindHTML
	case strings.HasPrefix(mediaType, "text/"):
		r.Kind = KindText
	default:
		r.Kind = KindUnknown
	}
}

func isJSONMediaType(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// sniff walks the detected MIME hierarchy up to the first family we classify.
func sniff(body []byte) string {
	for m := mimetype.Detect(body); m != nil; m = m.Parent() {
		switch {
		case m.Is("application/json"):
			return "application/json"
		case m.Is("text/html"):
			return "text/html"
		case m.Is("text/plain"):
			return "text/plain"
		}
	}
	return "application/octet-stream"
}
