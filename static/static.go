// Package static embeds the API documentation assets served under /static.
package static

import "embed"

//go:embed openapi.html openapi.json
var FS embed.FS
