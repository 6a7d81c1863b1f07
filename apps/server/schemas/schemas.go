// Package schemas embeds the server's OpenAPI document.
package schemas

import _ "embed"

// OpenAPISpec is the inspection API description used for request validation.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
