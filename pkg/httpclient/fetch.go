package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Guard validates the shape of a raw JSON body before it is decoded.
type Guard interface {
	Name() string
	Check(body []byte) error
}

// FetchJSON traverses req, requires a JSON response, checks it against guard
// (when non-nil) and decodes the body into T.
func FetchJSON[T any](ctx context.Context, c Client, req Request, guard Guard) (T, error) {
	var zero T

	result, err := c.Traverse(ctx, req)
	if err != nil {
		return zero, err
	}
	if !result.IsJSON() {
		return zero, &UnexpectedKindError{URL: req.URL, Kind: result.Kind}
	}
	if guard != nil {
		if err := guard.Check(result.Body); err != nil {
			return zero, &GuardError{Guard: guard.Name(), URL: req.URL, Err: err}
		}
	}

	var out T
	if err := json.Unmarshal(result.Body, &out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", req.URL, err)
	}
	return out, nil
}

// SchemaGuard checks bodies against a compiled JSON Schema.
type SchemaGuard struct {
	name   string
	schema *jsonschema.Schema
}

// Compile-time check: *SchemaGuard implements Guard.
var _ Guard = (*SchemaGuard)(nil)

// NewSchemaGuard compiles schemaJSON under the given name.
func NewSchemaGuard(name, schemaJSON string) (*SchemaGuard, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	loc := name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", name, err)
	}
	schema, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return &SchemaGuard{name: name, schema: schema}, nil
}

// MustSchemaGuard is NewSchemaGuard for package-level schemas; it panics on error.
func MustSchemaGuard(name, schemaJSON string) *SchemaGuard {
	g, err := NewSchemaGuard(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the guard's name, used in GuardError.
func (g *SchemaGuard) Name() string {
	return g.name
}

// Check validates body against the schema.
func (g *SchemaGuard) Check(body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	return g.schema.Validate(inst)
}

// NamedArraySchema accepts an array whose every element is an object with a
// non-empty string "name". GitHub and GitLab tag and group listings share it.
const NamedArraySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {
      "name": {"type": "string", "minLength": 1}
    }
  }
}`
