// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package youtube extracts video identifiers from pasted YouTube links and
// builds the derived thumbnail and embed URLs.
package youtube

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidURL is returned when no 11-character video id can be extracted.
var ErrInvalidURL = errors.New("URL do YouTube inválida")

// videoID matches watch?v=, youtu.be/, embed/, v/ and e/ link forms.
var videoID = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// ExtractID returns the video id embedded in rawURL.
func ExtractID(rawURL string) (string, bool) {
	m := videoID.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MustExtractID is ExtractID with the failure expressed as ErrInvalidURL.
func MustExtractID(rawURL string) (string, error) {
	id, ok := ExtractID(rawURL)
	if !ok {
		return "", ErrInvalidURL
	}
	return id, nil
}

// ThumbnailURL returns the platform's max-resolution thumbnail for id.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

// EmbedURL returns the iframe player URL for id.
func EmbedURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", id)
}
