// Package spec embeds the OpenAPI specification for the Benefits API.
// The HTTP server serves it at /api/openapi.yaml and renders it at /api.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
