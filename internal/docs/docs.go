// Package docs embeds the user documentation shown by `ensureline doc` and
// served as an MCP resource.
package docs

import _ "embed"

//go:embed ensureline.md
var Markdown string
