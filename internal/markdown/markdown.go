// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown turns plain-text descriptions into HTML with bare URLs
// converted into links, using goldmark. Raw HTML is passed through and then
// cleaned by the sanitize package, so descriptions written in the rich-text
// editor render the same way.
package markdown

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"ivonews/internal/sanitize"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // line breaks in descriptions are intentional
		html.WithUnsafe(),
	),
)

// ToHTML converts source into sanitized HTML. Absolute links open in a new
// tab with rel="noreferrer".
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return sanitize.Links(buf.String()), nil
}

// Linkify is ToHTML for templates: on a conversion error the text is
// returned escaped, without links.
func Linkify(source string) string {
	out, err := ToHTML(source)
	if err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTMLEscapeString(source)
	}
	return out
}
