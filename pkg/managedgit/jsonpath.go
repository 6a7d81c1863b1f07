package managedgit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// JSONPathEnhancer narrows JSON content to the gjson path query
// (e.g. "dependencies.react" or "tags.#.name"). Text content passes through
// untouched. A query that matches nothing yields absent content.
func JSONPathEnhancer(query string) ContentEnhancer {
	return EnhancerFunc[ContentContext, Content](func(_ context.Context, _ ContentContext, c Content) (Content, error) {
		jf, ok := c.(*JSONFile)
		if !ok || query == "" {
			return c, nil
		}

		raw, err := jsonBytes(jf)
		if err != nil {
			return nil, err
		}
		res := gjson.GetBytes(raw, query)
		if !res.Exists() {
			return nil, nil
		}
		return NewJSONFile(jf.Path(), jf.Traverse(), res.Value()), nil
	})
}

// jsonBytes returns the JSON encoding of f, reusing the body when it is the
// document being parsed.
func jsonBytes(f *JSONFile) ([]byte, error) {
	v, err := f.Value()
	if err != nil {
		return nil, err
	}
	if f.lazy && f.result != nil {
		return f.result.Body, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("re-encode %s: %w", f.path, err)
	}
	return b, nil
}
