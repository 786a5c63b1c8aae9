// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize cleans user-authored HTML before it is rendered raw.
package sanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richText  = newRichTextPolicy()
	outbound  = newOutboundPolicy()
	plainText = bluemonday.StrictPolicy()
)

// newRichTextPolicy allows the inline formatting produced by the editor and
// nothing else. bluemonday policies are safe for concurrent use once built.
func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("a", "b", "i", "em", "strong", "p", "br", "ul", "ol", "li")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowAttrs("class").Globally()

	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// newOutboundPolicy is the rich-text policy that also opens external links
// in a new tab without leaking the referrer.
func newOutboundPolicy() *bluemonday.Policy {
	p := newRichTextPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	return p
}

// HTML strips every tag and attribute outside the allow-list. Applying it
// twice yields the same output as applying it once.
func HTML(s string) string {
	return richText.Sanitize(s)
}

// Template is HTML typed for direct use in html/template.
func Template(s string) template.HTML {
	return template.HTML(HTML(s)) //nolint:gosec // sanitized above
}

// Links is HTML plus target="_blank" and rel="noreferrer" on absolute links.
func Links(s string) string {
	return outbound.Sanitize(s)
}

// Text removes all markup, leaving escaped text suitable for card excerpts.
func Text(s string) string {
	return strings.TrimSpace(plainText.Sanitize(s))
}
