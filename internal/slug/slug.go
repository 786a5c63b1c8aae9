// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation for content titles and
// category names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
)

// fallback is used when a title has no characters that survive
// normalisation, so content slugs always have a non-empty stem.
const fallback = "conteudo"

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Characters
// outside [a-z0-9] are dropped, not transliterated.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ForContent derives a post or video slug: the normalised title followed by
// the creation time in Unix milliseconds. Two calls with the same title in
// the same millisecond collide; the unique index on slug rejects the second.
func ForContent(title string, now time.Time) string {
	base := Generate(title)
	if base == "" {
		base = fallback
	}
	return base + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// New is ForContent at the current time.
func New(title string) string {
	return ForContent(title, time.Now())
}

// ForCategory derives a category slug. Accented letters are transliterated
// to ASCII first, so "Música" becomes "musica" instead of "msica".
func ForCategory(name string) string {
	return Generate(unidecode.Unidecode(strings.TrimSpace(name)))
}
