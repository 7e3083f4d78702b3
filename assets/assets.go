// Package assets embeds the default portfolio catalog.
package assets

import _ "embed"

// Catalog is the built-in catalog.yaml
//
//go:embed catalog.yaml
var Catalog []byte
