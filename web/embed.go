// Package web embeds the single-page dashboard served at the root route.
package web

import "embed"

//go:embed index.html
var Static embed.FS
