// Package api carries the published HTTP contract of the service.
package api

import _ "embed"

// OpenAPI is the Swagger 2.0 description of the HTTP API, served at /openapi.json.
//
//go:embed swagger/user.swagger.json
var OpenAPI []byte
