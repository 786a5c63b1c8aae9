// Package web provides the embedded static assets (CSS, JS) served at
// /static/. In development the layout loads Tailwind from its CDN; in
// production it links the stylesheet embedded here.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
